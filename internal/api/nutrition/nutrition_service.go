package nutrition

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/detector"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Totals(ctx context.Context, labels []string) types.NutrientTotals
	Food(ctx context.Context, name string) (*types.NutritionRow, error)
	AnalyzeImage(ctx context.Context, img detector.Image) (types.MealAnalysis, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	table    *Table
	detector detector.Service
}

func NewServiceImpl(table *Table, detectorService detector.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		table:    table,
		detector: detectorService,
	}
}

func (s *ServiceImpl) Totals(ctx context.Context, labels []string) types.NutrientTotals {
	_, span := otel.Tracer("NutritionService").Start(ctx, "Totals", trace.WithAttributes(
		attribute.Int("labels.count", len(labels)),
	))
	defer span.End()

	totals := Aggregate(s.table, labels)
	span.SetStatus(codes.Ok, "Totals aggregated")
	return totals
}

func (s *ServiceImpl) Food(ctx context.Context, name string) (*types.NutritionRow, error) {
	_, span := otel.Tracer("NutritionService").Start(ctx, "Food", trace.WithAttributes(
		attribute.String("food.name", name),
	))
	defer span.End()

	row, ok := s.table.Lookup(name)
	if !ok {
		span.SetStatus(codes.Error, "Food not in table")
		return nil, fmt.Errorf("food %q: %w", name, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Food found")
	return &row, nil
}

// AnalyzeImage detects the dishes of a photo and analyses their nutrients.
func (s *ServiceImpl) AnalyzeImage(ctx context.Context, img detector.Image) (types.MealAnalysis, error) {
	ctx, span := otel.Tracer("NutritionService").Start(ctx, "AnalyzeImage")
	defer span.End()
	l := s.logger.With(slog.String("method", "AnalyzeImage"))
	l.DebugContext(ctx, "Analyzing meal photo")

	detections, err := s.detector.Predict(ctx, img)
	if err != nil {
		l.ErrorContext(ctx, "Food detection failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Food detection failed")
		return types.MealAnalysis{}, fmt.Errorf("failed to detect dishes: %w", err)
	}
	if len(detections) == 0 {
		span.SetStatus(codes.Error, "No food detected")
		return types.MealAnalysis{}, types.ErrNoDetections
	}

	analysis := Analyze(s.table, detections)
	l.InfoContext(ctx, "Meal analyzed",
		slog.Int("dishes", len(analysis.Dishes)),
		slog.Float64("calories", analysis.Totals.Calories))
	span.SetAttributes(attribute.Int("dishes.count", len(analysis.Dishes)))
	span.SetStatus(codes.Ok, "Meal analyzed")
	return analysis, nil
}
