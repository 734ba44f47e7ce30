package detector

import (
	"errors"
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

// Predict godoc
// @Summary      Detect food in an image
// @Description  Runs the food detector on the uploaded image and returns every detection at or above the confidence threshold.
// @Tags         Detector
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Image (jpeg, png or gif)"
// @Success      200 {object} types.PredictResponse
// @Failure      400 {object} types.Response "Missing file"
// @Failure      415 {object} types.Response "Unsupported image"
// @Failure      502 {object} types.Response "Detector backend failure"
// @Router       /predict [post]
func (h *HandlerImpl) Predict(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DetectorHandler").Start(r.Context(), "Predict", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/predict"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Predict"))

	img, err := ReadUpload(w, r, h.maxUploadBytes)
	if err != nil {
		l.WarnContext(ctx, "Invalid upload", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid upload")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	detections, err := h.service.Predict(ctx, img)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Detection failed")
		status := http.StatusBadGateway
		if errors.Is(err, types.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		api.ErrorResponse(w, r, status, "Food detection failed: "+err.Error())
		return
	}
	if detections == nil {
		detections = []types.Detection{}
	}

	span.SetAttributes(attribute.Int("detections.count", len(detections)))
	span.SetStatus(codes.Ok, "Detection served")
	api.WriteJSONResponse(w, r, http.StatusOK, types.PredictResponse{
		Status:     "success",
		Detections: detections,
	})
}

// Health godoc
// @Summary      Health check
// @Tags         Detector
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Router       /health [get]
func (h *HandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, types.HealthResponse{Status: "healthy"})
}
