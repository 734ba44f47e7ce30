package nutrition

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/detector"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

type HandlerImpl struct {
	logger         *slog.Logger
	service        Service
	maxUploadBytes int64
}

func NewHandlerImpl(service Service, maxUploadBytes int64, logger *slog.Logger) *HandlerImpl {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &HandlerImpl{
		logger:         logger,
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Totals godoc
// @Summary      Sum nutrients for labels
// @Description  Adds up the table rows of every label. Unknown labels contribute zero.
// @Tags         Nutrition
// @Accept       json
// @Produce      json
// @Param        body body types.NutrientTotalsRequest true "Detected labels"
// @Success      200 {object} types.NutrientTotals
// @Failure      400 {object} types.Response "Invalid Input"
// @Router       /api/v1/nutrition/totals [post]
func (h *HandlerImpl) Totals(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NutritionHandler").Start(r.Context(), "Totals", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/nutrition/totals"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Totals"))

	var req types.NutrientTotalsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Totals served")
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Totals(ctx, req.Labels))
}

// Food godoc
// @Summary      Look up one food
// @Tags         Nutrition
// @Produce      json
// @Param        name path string true "Food name"
// @Success      200 {object} types.NutritionRow
// @Failure      404 {object} types.Response "Not Found"
// @Router       /api/v1/nutrition/foods/{name} [get]
func (h *HandlerImpl) Food(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NutritionHandler").Start(r.Context(), "Food", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/nutrition/foods/{name}"),
	))
	defer span.End()

	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		span.SetStatus(codes.Error, "Invalid food name")
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid food name")
		return
	}

	row, err := h.service.Food(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Food lookup failed")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Food served")
	api.WriteJSONResponse(w, r, http.StatusOK, row)
}

// Analyze godoc
// @Summary      Analyze a meal photo
// @Description  Detects the dishes of the photo, looks up their nutrients and adds remarks for protein, calcium and iron.
// @Tags         Nutrition
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Meal photo"
// @Success      200 {object} types.MealAnalysis
// @Failure      400 {object} types.Response "Missing file"
// @Failure      415 {object} types.Response "Unsupported image"
// @Failure      422 {object} types.Response "No food detected"
// @Failure      502 {object} types.Response "Detector backend failure"
// @Router       /api/v1/nutrition/analyze [post]
func (h *HandlerImpl) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NutritionHandler").Start(r.Context(), "Analyze", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/nutrition/analyze"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Analyze"))

	img, err := detector.ReadUpload(w, r, h.maxUploadBytes)
	if err != nil {
		l.WarnContext(ctx, "Invalid upload", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid upload")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	analysis, err := h.service.AnalyzeImage(ctx, img)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Meal analysis failed")
		if errors.Is(err, types.ErrNoDetections) {
			api.ErrorResponse(w, r, http.StatusUnprocessableEntity, commentNoneDetect)
			return
		}
		api.ErrorResponse(w, r, http.StatusBadGateway, "Meal analysis failed: "+err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Meal analyzed")
	api.WriteJSONResponse(w, r, http.StatusOK, analysis)
}
