package meals

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
	now     func() time.Time
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
		now:     time.Now,
	}
}

// AddMeal godoc
// @Summary      Record a meal
// @Description  Appends one entry to the meal calendar. The date defaults to today.
// @Tags         Meals
// @Accept       json
// @Produce      json
// @Param        body body types.CreateMealRequest true "Meal entry"
// @Success      201 {object} types.MealEntry
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /api/v1/meals [post]
func (h *HandlerImpl) AddMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MealsHandler").Start(r.Context(), "AddMeal", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/meals"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "AddMeal"))

	var req types.CreateMealRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	date := h.now()
	if req.Date != "" {
		parsed, err := ParseDate(req.Date)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Invalid date")
			api.ErrorResponse(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}
	meal, _ := ParseMealType(string(req.Meal))

	entry := types.MealEntry{
		Date:     day(date),
		Meal:     meal,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	}
	if err := h.service.AddMeal(ctx, entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to add meal")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Meal added")
	api.WriteJSONResponse(w, r, http.StatusCreated, entry)
}

// ListMeals godoc
// @Summary      List recorded meals
// @Tags         Meals
// @Produce      json
// @Success      200 {array} types.MealEntry
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /api/v1/meals [get]
func (h *HandlerImpl) ListMeals(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MealsHandler").Start(r.Context(), "ListMeals", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/meals"),
	))
	defer span.End()

	entries, err := h.service.Meals(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list meals")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list meals")
		return
	}

	span.SetStatus(codes.Ok, "Meals listed")
	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}

// Summary godoc
// @Summary      Daily nutrient totals
// @Description  Sums calories and macros per day over the last 7 or 30 days.
// @Tags         Meals
// @Produce      json
// @Param        days query int false "Period in days (7 or 30)" default(7)
// @Success      200 {array} types.DailySummary
// @Failure      400 {object} types.Response "Invalid Input"
// @Router       /api/v1/meals/summary [get]
func (h *HandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MealsHandler").Start(r.Context(), "Summary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/meals/summary"),
	))
	defer span.End()

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			span.SetStatus(codes.Error, "Invalid days")
			api.ErrorResponse(w, r, http.StatusBadRequest, "days must be 7 or 30")
			return
		}
		days = n
	}

	summary, err := h.service.Summary(ctx, days, h.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to summarise meals")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Summary served")
	api.WriteJSONResponse(w, r, http.StatusOK, summary)
}

// Recommendations godoc
// @Summary      Diet recommendations
// @Description  Average intake per recorded meal with advice for low protein, carbs or fat.
// @Tags         Meals
// @Produce      json
// @Success      200 {object} types.MealRecommendations
// @Failure      404 {object} types.Response "No meals recorded"
// @Router       /api/v1/meals/recommendations [get]
func (h *HandlerImpl) Recommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MealsHandler").Start(r.Context(), "Recommendations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/meals/recommendations"),
	))
	defer span.End()

	rec, err := h.service.Recommendations(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build recommendations")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Recommendations served")
	api.WriteJSONResponse(w, r, http.StatusOK, rec)
}
