package bodymetrics

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

type HandlerImpl struct {
	logger *slog.Logger
}

func NewHandlerImpl(logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{logger: logger}
}

// CalculateBMI godoc
// @Summary      Calculate BMI
// @Description  Computes the body mass index from weight (kg) and height (m).
// @Tags         Body
// @Accept       json
// @Produce      json
// @Param        body body types.BMIRequest true "Weight and height"
// @Success      200 {object} types.BMIResponse
// @Failure      400 {object} types.Response "Invalid Input"
// @Router       /api/v1/body/bmi [post]
func (h *HandlerImpl) CalculateBMI(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BodyMetricsHandler").Start(r.Context(), "CalculateBMI", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/body/bmi"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CalculateBMI"))

	var req types.BMIRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	bmi, err := CalculateBMI(req.WeightKg, req.HeightM)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid body metrics")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetAttributes(attribute.Float64("bmi", bmi))
	span.SetStatus(codes.Ok, "BMI calculated")
	api.WriteJSONResponse(w, r, http.StatusOK, types.BMIResponse{
		BMI:            bmi,
		Interpretation: InterpretBMI(bmi),
	})
}

// DailyNeeds godoc
// @Summary      Daily energy and macro needs
// @Description  Mifflin-St Jeor BMR scaled by activity level, with carb/protein/fat ranges in grams.
// @Tags         Body
// @Accept       json
// @Produce      json
// @Param        body body types.BodyProfile true "Body profile"
// @Success      200 {object} types.NutrientRecommendation
// @Failure      400 {object} types.Response "Invalid Input"
// @Router       /api/v1/body/needs [post]
func (h *HandlerImpl) DailyNeeds(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BodyMetricsHandler").Start(r.Context(), "DailyNeeds", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/body/needs"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "DailyNeeds"))

	var profile types.BodyProfile
	if err := api.DecodeJSONBody(w, r, &profile); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := Recommend(profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid body profile")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Daily needs calculated")
	api.WriteJSONResponse(w, r, http.StatusOK, rec)
}
