package detector

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rktypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

type labelDetector interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionBackend uses AWS Rekognition label detection.
type RekognitionBackend struct {
	client        labelDetector
	maxLabels     int32
	minConfidence float32
}

func NewRekognitionBackend(ctx context.Context, region string, maxLabels int32, threshold float64) (*RekognitionBackend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newRekognitionBackend(rekognition.NewFromConfig(cfg), maxLabels, threshold), nil
}

func newRekognitionBackend(client labelDetector, maxLabels int32, threshold float64) *RekognitionBackend {
	if maxLabels <= 0 {
		maxLabels = 20
	}
	return &RekognitionBackend{
		client:        client,
		maxLabels:     maxLabels,
		minConfidence: float32(threshold * 100),
	}
}

func (b *RekognitionBackend) Name() string { return "rekognition" }

func (b *RekognitionBackend) Detect(ctx context.Context, img Image) ([]types.Detection, error) {
	out, err := b.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &rktypes.Image{Bytes: img.Data},
		MaxLabels:     aws.Int32(b.maxLabels),
		MinConfidence: aws.Float32(b.minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition DetectLabels failed: %w", err)
	}
	return labelsToDetections(out.Labels, img.Width, img.Height), nil
}

// labelsToDetections emits one detection per located instance. A label
// without instances covers the whole image.
func labelsToDetections(labels []rktypes.Label, width, height int) []types.Detection {
	w, h := float64(width), float64(height)
	var out []types.Detection
	for _, l := range labels {
		name := aws.ToString(l.Name)
		if name == "" {
			continue
		}
		if len(l.Instances) == 0 {
			out = append(out, types.Detection{
				BBox:       [4]float64{0, 0, w, h},
				Class:      -1,
				ClassName:  name,
				Confidence: float64(aws.ToFloat32(l.Confidence)) / 100,
			})
			continue
		}
		for _, inst := range l.Instances {
			bb := inst.BoundingBox
			if bb == nil {
				continue
			}
			left, top := float64(aws.ToFloat32(bb.Left)), float64(aws.ToFloat32(bb.Top))
			bw, bh := float64(aws.ToFloat32(bb.Width)), float64(aws.ToFloat32(bb.Height))
			out = append(out, types.Detection{
				BBox:       [4]float64{left * w, top * h, (left + bw) * w, (top + bh) * h},
				Class:      -1,
				ClassName:  name,
				Confidence: float64(aws.ToFloat32(inst.Confidence)) / 100,
			})
		}
	}
	return out
}
