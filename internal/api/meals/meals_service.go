package meals

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vegan-diet-assistant/app/observability/metrics"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

const (
	lowProteinGrams = 50
	lowCarbsGrams   = 200
	lowFatGrams     = 50

	adviceProtein = "Protein intake is low. Tofu, tempeh and lentils are good sources."
	adviceCarbs   = "Carbohydrate intake is low. Try brown rice or sweet potatoes."
	adviceFat     = "Fat intake is low. Avocado and nuts are good choices."
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	AddMeal(ctx context.Context, entry types.MealEntry) error
	Meals(ctx context.Context) ([]types.MealEntry, error)
	Summary(ctx context.Context, days int, now time.Time) ([]types.DailySummary, error)
	Recommendations(ctx context.Context) (types.MealRecommendations, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func validateEntry(e types.MealEntry) error {
	if e.Date.IsZero() {
		return fmt.Errorf("date is required: %w", types.ErrInvalidInput)
	}
	if !e.Meal.Valid() {
		return fmt.Errorf("unknown meal type %q: %w", e.Meal, types.ErrInvalidInput)
	}
	if e.Calories < 0 || e.Protein < 0 || e.Carbs < 0 || e.Fat < 0 {
		return fmt.Errorf("nutrient amounts must not be negative: %w", types.ErrInvalidInput)
	}
	return nil
}

func (s *ServiceImpl) AddMeal(ctx context.Context, entry types.MealEntry) error {
	ctx, span := otel.Tracer("MealsService").Start(ctx, "AddMeal", trace.WithAttributes(
		attribute.String("meal.type", string(entry.Meal)),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "AddMeal"))

	if err := validateEntry(entry); err != nil {
		l.WarnContext(ctx, "Rejected meal entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid meal entry")
		return err
	}
	entry.Date = day(entry.Date)

	if err := s.repo.Append(ctx, entry); err != nil {
		l.ErrorContext(ctx, "Failed to store meal entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store meal entry")
		return fmt.Errorf("failed to add meal: %w", err)
	}

	metrics.Get().MealEntriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("meal", string(entry.Meal))))
	l.InfoContext(ctx, "Meal entry stored", slog.String("date", entry.Date.Format(dateLayout)))
	span.SetStatus(codes.Ok, "Meal entry stored")
	return nil
}

func (s *ServiceImpl) Meals(ctx context.Context) ([]types.MealEntry, error) {
	ctx, span := otel.Tracer("MealsService").Start(ctx, "Meals")
	defer span.End()

	entries, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list meals")
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	span.SetStatus(codes.Ok, "Meals listed")
	return entries, nil
}

// Summary sums the entries dated on or after now minus days, one row per
// date, ascending.
func (s *ServiceImpl) Summary(ctx context.Context, days int, now time.Time) ([]types.DailySummary, error) {
	ctx, span := otel.Tracer("MealsService").Start(ctx, "Summary", trace.WithAttributes(
		attribute.Int("summary.days", days),
	))
	defer span.End()

	if days != 7 && days != 30 {
		span.SetStatus(codes.Error, "Invalid period")
		return nil, fmt.Errorf("days must be 7 or 30: %w", types.ErrInvalidInput)
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list meals")
		return nil, fmt.Errorf("failed to summarise meals: %w", err)
	}

	summary := Summarize(entries, windowStart(now, days))
	span.SetAttributes(attribute.Int("summary.rows", len(summary)))
	span.SetStatus(codes.Ok, "Summary computed")
	return summary, nil
}

// Summarize groups the entries on or after cutoff by day.
func Summarize(entries []types.MealEntry, cutoff time.Time) []types.DailySummary {
	byDate := map[string]*types.DailySummary{}
	for _, e := range entries {
		if e.Date.Before(cutoff) {
			continue
		}
		key := e.Date.Format(dateLayout)
		sum, ok := byDate[key]
		if !ok {
			sum = &types.DailySummary{Date: key}
			byDate[key] = sum
		}
		sum.Calories += e.Calories
		sum.Protein += e.Protein
		sum.Carbs += e.Carbs
		sum.Fat += e.Fat
	}

	out := make([]types.DailySummary, 0, len(byDate))
	for _, sum := range byDate {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (s *ServiceImpl) Recommendations(ctx context.Context) (types.MealRecommendations, error) {
	ctx, span := otel.Tracer("MealsService").Start(ctx, "Recommendations")
	defer span.End()

	entries, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list meals")
		return types.MealRecommendations{}, fmt.Errorf("failed to build recommendations: %w", err)
	}
	if len(entries) == 0 {
		span.SetStatus(codes.Error, "No meals recorded")
		return types.MealRecommendations{}, fmt.Errorf("no meals recorded yet: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Recommendations computed")
	return Recommend(entries), nil
}

// Recommend averages per entry, not per day.
func Recommend(entries []types.MealEntry) types.MealRecommendations {
	rec := types.MealRecommendations{Advice: []string{}}
	if len(entries) == 0 {
		return rec
	}
	for _, e := range entries {
		rec.AvgCalories += e.Calories
		rec.AvgProtein += e.Protein
		rec.AvgCarbs += e.Carbs
		rec.AvgFat += e.Fat
	}
	n := float64(len(entries))
	rec.AvgCalories /= n
	rec.AvgProtein /= n
	rec.AvgCarbs /= n
	rec.AvgFat /= n

	if rec.AvgProtein < lowProteinGrams {
		rec.Advice = append(rec.Advice, adviceProtein)
	}
	if rec.AvgCarbs < lowCarbsGrams {
		rec.Advice = append(rec.Advice, adviceCarbs)
	}
	if rec.AvgFat < lowFatGrams {
		rec.Advice = append(rec.Advice, adviceFat)
	}
	return rec
}
