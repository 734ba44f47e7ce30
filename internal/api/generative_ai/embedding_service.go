package generativeAI

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const defaultEmbeddingModel = "text-embedding-004"

// Task types understood by the embedding endpoint.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingService struct {
	models *genai.Models
	model  string
	logger *slog.Logger
}

func NewEmbeddingService(ai *AIClient, model string, logger *slog.Logger) *EmbeddingService {
	if model == "" {
		model = defaultEmbeddingModel
	}
	return &EmbeddingService{models: ai.Models(), model: model, logger: logger}
}

// EmbedTexts returns one vector per input text, in order.
func (s *EmbeddingService) EmbedTexts(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	ctx, span := otel.Tracer("EmbeddingService").Start(ctx, "EmbedTexts", trace.WithAttributes(
		attribute.Int("texts.count", len(texts)),
		attribute.String("model", s.model),
		attribute.String("task_type", taskType),
	))
	defer span.End()

	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	resp, err := s.models.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{TaskType: taskType})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Embedding request failed")
		return nil, fmt.Errorf("failed to embed %d texts: %w", len(texts), err)
	}
	if len(resp.Embeddings) != len(texts) {
		err := fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), len(texts))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Embedding count mismatch")
		return nil, err
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vectors[i] = e.Values
	}
	s.logger.DebugContext(ctx, "Generated embeddings", slog.Int("count", len(vectors)))
	span.SetStatus(codes.Ok, "Embeddings generated")
	return vectors, nil
}
