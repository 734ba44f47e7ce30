package detector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vegan-diet-assistant/app/observability/metrics"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

const DefaultConfidenceThreshold = 0.25

var _ Service = (*ServiceImpl)(nil)

// Service runs food detection on decoded images.
type Service interface {
	Predict(ctx context.Context, img Image) ([]types.Detection, error)
	Backend() string
}

type ServiceImpl struct {
	logger     *slog.Logger
	backend    Backend
	threshold  float64
	classNames []string
}

func NewServiceImpl(backend Backend, threshold float64, classNames []string, logger *slog.Logger) *ServiceImpl {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &ServiceImpl{
		logger:     logger,
		backend:    backend,
		threshold:  threshold,
		classNames: classNames,
	}
}

func (s *ServiceImpl) Backend() string { return s.backend.Name() }

func (s *ServiceImpl) Predict(ctx context.Context, img Image) ([]types.Detection, error) {
	ctx, span := otel.Tracer("DetectorService").Start(ctx, "Predict", trace.WithAttributes(
		attribute.String("detector.backend", s.backend.Name()),
		attribute.Int("image.width", img.Width),
		attribute.Int("image.height", img.Height),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "Predict"), slog.String("backend", s.backend.Name()))
	l.DebugContext(ctx, "Running food detection", slog.Int("bytes", len(img.Data)))

	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("backend", s.backend.Name()))
	m.PredictRequestsTotal.Add(ctx, 1, attrs)

	start := time.Now()
	raw, err := s.backend.Detect(ctx, img)
	m.DetectionDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		l.ErrorContext(ctx, "Detector backend failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Detector backend failed")
		return nil, fmt.Errorf("detector backend %s: %w", s.backend.Name(), err)
	}

	detections := s.filter(raw, img.Width, img.Height)
	m.DetectionsTotal.Add(ctx, int64(len(detections)), attrs)

	l.InfoContext(ctx, "Food detection finished", slog.Int("raw", len(raw)), slog.Int("kept", len(detections)))
	span.SetAttributes(attribute.Int("detections.count", len(detections)))
	span.SetStatus(codes.Ok, "Detection finished")
	return detections, nil
}

// filter keeps detections at or above the threshold, resolves class ids and
// names, clamps boxes and orders by confidence.
func (s *ServiceImpl) filter(raw []types.Detection, width, height int) []types.Detection {
	out := make([]types.Detection, 0, len(raw))
	for _, d := range raw {
		if d.Confidence < s.threshold {
			continue
		}
		if d.ClassName == "" && d.Class >= 0 && d.Class < len(s.classNames) {
			d.ClassName = s.classNames[d.Class]
		}
		if d.Class < 0 {
			d.Class = s.classIndex(d.ClassName)
		}
		d.BBox = clampBox(d.BBox, width, height)
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

func (s *ServiceImpl) classIndex(name string) int {
	for i, c := range s.classNames {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}
