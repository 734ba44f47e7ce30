package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-vegan-diet-assistant/app/middleware"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
	tokens  *appMiddleware.SessionTokens
}

func NewHandlerImpl(service Service, tokens *appMiddleware.SessionTokens, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
		tokens:  tokens,
	}
}

// CreateSession godoc
// @Summary      Start a chat session
// @Description  Opens a conversation seeded with the assistant greeting and returns a bearer token for it.
// @Tags         Chat
// @Produce      json
// @Success      201 {object} types.ChatSessionResponse
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /api/v1/chat/sessions [post]
func (h *HandlerImpl) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "CreateSession", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/chat/sessions"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateSession"))

	sessionID, messages := h.service.StartSession(ctx)
	token, err := h.tokens.Issue(sessionID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue session token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue token")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to start chat session")
		return
	}

	span.SetStatus(codes.Ok, "Session created")
	api.WriteJSONResponse(w, r, http.StatusCreated, types.ChatSessionResponse{
		SessionID: sessionID,
		Token:     token,
		Messages:  messages,
	})
}

// GetMessages godoc
// @Summary      Chat transcript
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} types.ChatMessage
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Session expired"
// @Router       /api/v1/chat/messages [get]
func (h *HandlerImpl) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "GetMessages", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/chat/messages"),
	))
	defer span.End()

	sessionID, ok := appMiddleware.GetSessionIDFromContext(ctx)
	if !ok {
		span.SetStatus(codes.Error, "Missing session")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Chat session required")
		return
	}

	messages, err := h.service.Messages(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session lookup failed")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Messages served")
	api.WriteJSONResponse(w, r, http.StatusOK, messages)
}

// Ask godoc
// @Summary      Ask the assistant
// @Description  Answers from the indexed documents and the session history. Model failures are returned as an "error: ..." answer.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body types.ChatQuestionRequest true "Question"
// @Success      200 {object} types.ChatAnswerResponse
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Session expired"
// @Router       /api/v1/chat/messages [post]
func (h *HandlerImpl) Ask(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "Ask", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/chat/messages"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Ask"))

	sessionID, ok := appMiddleware.GetSessionIDFromContext(ctx)
	if !ok {
		span.SetStatus(codes.Error, "Missing session")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Chat session required")
		return
	}

	var req types.ChatQuestionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	answer, messages, err := h.service.Ask(ctx, sessionID, req.Question)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ask failed")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Question answered")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ChatAnswerResponse{
		Answer:   answer,
		Messages: messages,
	})
}

// AskStream godoc
// @Summary      Ask the assistant with a streamed answer
// @Description  Server-sent events: "chunk" events carry partial text, a final "complete" event carries the whole answer.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        body body types.ChatQuestionRequest true "Question"
// @Success      200 {object} types.StreamEvent
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Session expired"
// @Router       /api/v1/chat/messages/stream [post]
func (h *HandlerImpl) AskStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "AskStream", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/chat/messages/stream"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "AskStream"))

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	sessionID, ok := appMiddleware.GetSessionIDFromContext(ctx)
	if !ok {
		span.SetStatus(codes.Error, "Missing session")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Chat session required")
		return
	}

	var req types.ChatQuestionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.service.AskStream(ctx, sessionID, req.Question)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "AskStream failed")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				span.SetStatus(codes.Ok, "Stream finished")
				return
			}
			if err := writeSSE(w, event); err != nil {
				l.ErrorContext(ctx, "Failed to write event", slog.Any("error", err))
				continue
			}
			flusher.Flush()
		case <-ctx.Done():
			l.InfoContext(ctx, "Client disconnected", slog.String("session_id", sessionID))
			return
		}
	}
}

func writeSSE(w http.ResponseWriter, event types.StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "id: %s\n", event.EventID)
	fmt.Fprintf(w, "event: %s\n", event.Type)
	fmt.Fprintf(w, "data: %s\n\n", data)
	return nil
}
