//go:build integration

package generativeAI

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if os.Getenv("GOOGLE_GEMINI_API_KEY") == "" {
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func newTestClient(t *testing.T) *AIClient {
	t.Helper()
	client, err := NewAIClient(context.Background(), os.Getenv("GOOGLE_GEMINI_API_KEY"), WithTemperature(0))
	require.NoError(t, err)
	return client
}

func TestNewAIClient_Integration(t *testing.T) {
	client := newTestClient(t)
	assert.NotNil(t, client.client)
	assert.Equal(t, defaultModel, client.Model())

	_, err := NewAIClient(context.Background(), "")
	assert.Error(t, err)
}

func TestAIClient_GenerateContent_Integration(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := client.GenerateContent(ctx, "Name one legume that is rich in protein. Answer with one word.")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(response))
}

func TestAIClient_GenerateContentStream_Integration(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var sb strings.Builder
	for chunk, err := range client.GenerateContentStream(ctx, "List three vegan sources of iron.") {
		require.NoError(t, err)
		sb.WriteString(chunk)
	}
	assert.NotEmpty(t, sb.String())
}

func TestEmbeddingService_EmbedTexts_Integration(t *testing.T) {
	client := newTestClient(t)
	svc := NewEmbeddingService(client, "", slog.Default())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vectors, err := svc.EmbedTexts(ctx, []string{"tofu is made from soybeans", "lentils contain iron"}, TaskRetrievalDocument)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.NotEmpty(t, vectors[0])
	assert.Equal(t, len(vectors[0]), len(vectors[1]))
}
