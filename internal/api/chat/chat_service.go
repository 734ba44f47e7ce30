package chat

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vegan-diet-assistant/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/generative_ai"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

const DefaultTopK = 5

// LLM is the hosted text generation model.
type LLM interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateContentStream(ctx context.Context, prompt string) iter.Seq2[string, error]
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	StartSession(ctx context.Context) (string, []types.ChatMessage)
	Messages(ctx context.Context, sessionID string) ([]types.ChatMessage, error)
	Ask(ctx context.Context, sessionID, question string) (string, []types.ChatMessage, error)
	AskStream(ctx context.Context, sessionID, question string) (<-chan types.StreamEvent, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	llm      LLM
	embedder Embedder
	index    *LazyIndex
	sessions *SessionStore
	topK     int
	now      func() time.Time
}

func NewServiceImpl(llm LLM, embedder Embedder, index *LazyIndex, sessions *SessionStore, topK int, logger *slog.Logger) *ServiceImpl {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ServiceImpl{
		logger:   logger,
		llm:      llm,
		embedder: embedder,
		index:    index,
		sessions: sessions,
		topK:     topK,
		now:      time.Now,
	}
}

func (s *ServiceImpl) StartSession(ctx context.Context) (string, []types.ChatMessage) {
	session := s.sessions.Create()
	s.logger.InfoContext(ctx, "Chat session started", slog.String("session_id", session.ID))
	return session.ID, session.Messages()
}

func (s *ServiceImpl) Messages(_ context.Context, sessionID string) ([]types.ChatMessage, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Messages(), nil
}

// Ask answers one question. Retrieval or model failures do not fail the
// call: the answer becomes "error: <message>" and no turn is recorded.
func (s *ServiceImpl) Ask(ctx context.Context, sessionID, question string) (string, []types.ChatMessage, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "Ask", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "Ask"), slog.String("session_id", sessionID))

	question = strings.TrimSpace(question)
	if question == "" {
		span.SetStatus(codes.Error, "Empty question")
		return "", nil, fmt.Errorf("question is required: %w", types.ErrInvalidInput)
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session not found")
		return "", nil, err
	}

	session.asking.Lock()
	defer session.asking.Unlock()

	session.appendMessage(types.RoleUser, question, s.now())
	l.DebugContext(ctx, "Answering question", slog.Int("history_turns", len(session.history.turns)))

	answer, err := s.answer(ctx, session.history.Text(), question)
	if err != nil {
		answer = s.recordFailure(ctx, l, span, err)
	} else {
		session.history.Add(question, answer)
		span.SetStatus(codes.Ok, "Question answered")
	}
	session.appendMessage(types.RoleAssistant, answer, s.now())

	return answer, session.Messages(), nil
}

// AskStream answers like Ask but emits the partial text as chunk events,
// closing the channel after a final complete event.
func (s *ServiceImpl) AskStream(ctx context.Context, sessionID, question string) (<-chan types.StreamEvent, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required: %w", types.ErrInvalidInput)
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	events := make(chan types.StreamEvent, 16)
	go func() {
		defer close(events)
		ctx, span := otel.Tracer("ChatService").Start(ctx, "AskStream", trace.WithAttributes(
			attribute.String("session.id", sessionID),
		))
		defer span.End()
		l := s.logger.With(slog.String("method", "AskStream"), slog.String("session_id", sessionID))

		send := func(ev types.StreamEvent) bool {
			ev.Timestamp = s.now()
			ev.EventID = uuid.NewString()
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		session.asking.Lock()
		defer session.asking.Unlock()
		session.appendMessage(types.RoleUser, question, s.now())

		var sb strings.Builder
		err := s.streamAnswer(ctx, session.history.Text(), question, func(chunk string) bool {
			sb.WriteString(chunk)
			return send(types.StreamEvent{Type: types.EventTypeChunk, Data: chunk})
		})

		answer := sb.String()
		if err != nil {
			answer = s.recordFailure(ctx, l, span, err)
			session.appendMessage(types.RoleAssistant, answer, s.now())
			if send(types.StreamEvent{Type: types.EventTypeError, Error: err.Error()}) {
				send(types.StreamEvent{Type: types.EventTypeComplete, Data: answer})
			}
			return
		}

		session.history.Add(question, answer)
		session.appendMessage(types.RoleAssistant, answer, s.now())
		span.SetStatus(codes.Ok, "Question answered")
		send(types.StreamEvent{Type: types.EventTypeComplete, Data: answer})
	}()
	return events, nil
}

func (s *ServiceImpl) recordFailure(ctx context.Context, l *slog.Logger, span trace.Span, err error) string {
	l.ErrorContext(ctx, "Chat answer failed", slog.Any("error", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, "Chat answer failed")
	metrics.Get().ChatErrorsTotal.Add(ctx, 1)
	return "error: " + err.Error()
}

func (s *ServiceImpl) retrieve(ctx context.Context, question string) ([]SearchResult, error) {
	idx, err := s.index.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("vector index unavailable: %w", err)
	}
	if idx.Len() == 0 {
		return nil, nil
	}
	vecs, err := s.embedder.EmbedTexts(ctx, []string{question}, generativeAI.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected one question embedding, got %d", len(vecs))
	}
	return idx.Search(vecs[0], s.topK), nil
}

func (s *ServiceImpl) answer(ctx context.Context, history, question string) (string, error) {
	results, err := s.retrieve(ctx, question)
	if err != nil {
		return "", err
	}

	start := time.Now()
	answer, err := s.llm.GenerateContent(ctx, renderPrompt(results, history, question))
	metrics.Get().LLMDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (s *ServiceImpl) streamAnswer(ctx context.Context, history, question string, emit func(string) bool) error {
	results, err := s.retrieve(ctx, question)
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		metrics.Get().LLMDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()
	for chunk, err := range s.llm.GenerateContentStream(ctx, renderPrompt(results, history, question)) {
		if err != nil {
			return err
		}
		if chunk == "" {
			continue
		}
		if !emit(chunk) {
			return ctx.Err()
		}
	}
	return nil
}
