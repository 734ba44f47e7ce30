package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

const geminiDetectPrompt = `Detect every distinct food item in this image.
Return a JSON array. For each item give "label" (a short lowercase food name in English),
"confidence" between 0 and 1, and "box_2d" as [ymin, xmin, ymax, xmax] normalized to 0-1000.`

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend asks a multimodal Gemini model for food boxes.
type GeminiBackend struct {
	models contentGenerator
	model  string
}

func NewGeminiBackend(models contentGenerator, model string) *GeminiBackend {
	return &GeminiBackend{models: models, model: model}
}

func (b *GeminiBackend) Name() string { return "gemini" }

type geminiBox struct {
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	Box2D      []float64 `json:"box_2d"`
}

func (b *GeminiBackend) Detect(ctx context.Context, img Image) ([]types.Detection, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, img.ContentType),
			genai.NewPartFromText(geminiDetectPrompt),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"label":      {Type: genai.TypeString},
					"confidence": {Type: genai.TypeNumber},
					"box_2d":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeNumber}},
				},
				Required: []string{"label", "confidence", "box_2d"},
			},
		},
	}

	resp, err := b.models.GenerateContent(ctx, b.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini detection failed: %w", err)
	}
	return parseGeminiDetections(resp.Text(), img.Width, img.Height)
}

// parseGeminiDetections converts normalized [ymin, xmin, ymax, xmax] boxes to pixel xyxy.
func parseGeminiDetections(raw string, width, height int) ([]types.Detection, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```")

	var boxes []geminiBox
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &boxes); err != nil {
		return nil, fmt.Errorf("failed to parse gemini detections: %w", err)
	}

	w, h := float64(width), float64(height)
	out := make([]types.Detection, 0, len(boxes))
	for _, gb := range boxes {
		if len(gb.Box2D) != 4 || gb.Label == "" {
			continue
		}
		out = append(out, types.Detection{
			BBox: [4]float64{
				gb.Box2D[1] / 1000 * w,
				gb.Box2D[0] / 1000 * h,
				gb.Box2D[3] / 1000 * w,
				gb.Box2D[2] / 1000 * h,
			},
			Class:      -1,
			ClassName:  gb.Label,
			Confidence: gb.Confidence,
		})
	}
	return out, nil
}
