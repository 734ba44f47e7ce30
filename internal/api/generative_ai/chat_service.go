package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// AIClient wraps the Gemini client with the configured model and temperature.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

type Option func(*AIClient)

func WithModel(model string) Option {
	return func(ai *AIClient) {
		if model != "" {
			ai.model = model
		}
	}
}

func WithTemperature(t float32) Option {
	return func(ai *AIClient) {
		ai.temperature = t
	}
}

func NewAIClient(ctx context.Context, apiKey string, opts ...Option) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	if apiKey == "" {
		err := errors.New("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	ai := &AIClient{client: client, model: defaultModel}
	for _, opt := range opts {
		opt(ai)
	}
	span.SetStatus(codes.Ok, "AI client created successfully")
	return ai, nil
}

// Models exposes the underlying model service for multimodal and embedding calls.
func (ai *AIClient) Models() *genai.Models {
	return ai.client.Models
}

func (ai *AIClient) Model() string {
	return ai.model
}

func (ai *AIClient) config() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{Temperature: genai.Ptr(ai.temperature)}
}

// GenerateContent sends a single prompt and returns the response text.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateContent", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", ai.model),
	))
	defer span.End()

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), ai.config())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := result.Text()
	span.SetAttributes(attribute.Int("response.length", len(responseText)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return responseText, nil
}

// GenerateContentStream yields partial text chunks as the model produces them.
func (ai *AIClient) GenerateContentStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateContentStream", trace.WithAttributes(
			attribute.Int("prompt.length", len(prompt)),
			attribute.String("model", ai.model),
		))
		defer span.End()

		for resp, err := range ai.client.Models.GenerateContentStream(ctx, ai.model, genai.Text(prompt), ai.config()) {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "Stream failed")
				yield("", err)
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
		span.SetStatus(codes.Ok, "Stream completed")
	}
}
