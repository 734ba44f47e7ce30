package router

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/go-vegan-diet-assistant/app/middleware"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/bodymetrics"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/chat"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/detector"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/meals"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/nutrition"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

type stubBackend struct{}

func (stubBackend) Name() string { return "stub" }

func (stubBackend) Detect(context.Context, detector.Image) ([]types.Detection, error) {
	return []types.Detection{{BBox: [4]float64{0, 0, 1, 1}, ClassName: "tofu", Confidence: 0.9}}, nil
}

type stubModel struct{}

func (stubModel) GenerateContent(context.Context, string) (string, error) {
	return "Eat your greens.", nil
}

func (stubModel) GenerateContentStream(context.Context, string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("Eat your greens.", nil)
	}
}

func (stubModel) EmbedTexts(_ context.Context, texts []string, _ string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func newTestRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	detectorService := detector.NewServiceImpl(stubBackend{}, detector.DefaultConfidenceThreshold, nil, logger)
	table := nutrition.NewTable([]types.NutritionRow{{Food: "tofu", Calories: 76, Protein: 8, Calcium: 350, Iron: 5.4}})

	repo, err := meals.NewCSVRepository(filepath.Join(t.TempDir(), "meal_data.csv"), logger)
	require.NoError(t, err)

	tokens, err := appMiddleware.NewSessionTokens("router-secret", time.Hour)
	require.NoError(t, err)
	chatService := chat.NewServiceImpl(stubModel{}, stubModel{}, chat.StaticIndex(chat.NewIndex("test")),
		chat.NewSessionStore(time.Hour), chat.DefaultTopK, logger)

	return SetupRouter(&Config{
		DetectorHandler:    detector.NewHandlerImpl(detectorService, 1<<20, logger),
		NutritionHandler:   nutrition.NewHandlerImpl(nutrition.NewServiceImpl(table, detectorService, logger), 1<<20, logger),
		BodyHandler:        bodymetrics.NewHandlerImpl(logger),
		MealsHandler:       meals.NewHandlerImpl(meals.NewServiceImpl(repo, logger), logger),
		ChatHandler:        chat.NewHandlerImpl(chatService, tokens, logger),
		SessionMiddleware:  appMiddleware.ChatSession(tokens),
		RateLimitPerMinute: rateLimit,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSetupRouter_PingAndHealth(t *testing.T) {
	r := newTestRouter(t, 0)

	rr := do(t, r, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())

	rr = do(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
}

func TestSetupRouter_NutritionAndBody(t *testing.T) {
	r := newTestRouter(t, 0)

	rr := do(t, r, http.MethodPost, "/api/v1/nutrition/totals", types.NutrientTotalsRequest{Labels: []string{"tofu", "tofu", "unknown"}}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var totals types.NutrientTotals
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &totals))
	assert.InDelta(t, 152, totals.Calories, 1e-9)
	assert.InDelta(t, 16, totals.Protein, 1e-9)

	rr = do(t, r, http.MethodGet, "/api/v1/nutrition/foods/tofu", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, r, http.MethodPost, "/api/v1/body/bmi", types.BMIRequest{WeightKg: 70, HeightM: 1.75}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var bmi types.BMIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bmi))
	assert.InDelta(t, 22.86, bmi.BMI, 0.01)
}

func TestSetupRouter_Meals(t *testing.T) {
	r := newTestRouter(t, 0)

	rr := do(t, r, http.MethodPost, "/api/v1/meals", types.CreateMealRequest{Meal: types.MealLunch, Calories: 540, Protein: 28}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, r, http.MethodGet, "/api/v1/meals", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []types.MealEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)

	rr = do(t, r, http.MethodGet, "/api/v1/meals/recommendations", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSetupRouter_ChatRequiresSessionToken(t *testing.T) {
	r := newTestRouter(t, 0)

	rr := do(t, r, http.MethodGet, "/api/v1/chat/messages", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, r, http.MethodPost, "/api/v1/chat/sessions", nil, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	var session types.ChatSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)

	auth := map[string]string{"Authorization": "Bearer " + session.Token}
	rr = do(t, r, http.MethodPost, "/api/v1/chat/messages", types.ChatQuestionRequest{Question: "What about B12?"}, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	var answer types.ChatAnswerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &answer))
	assert.Equal(t, "Eat your greens.", answer.Answer)

	rr = do(t, r, http.MethodGet, "/api/v1/chat/messages", nil, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	var messages []types.ChatMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	assert.Len(t, messages, 3)
}

func TestSetupRouter_RateLimitsPredict(t *testing.T) {
	r := newTestRouter(t, 1)

	first := do(t, r, http.MethodPost, "/predict", nil, nil)
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := do(t, r, http.MethodPost, "/predict", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Unlimited routes are unaffected.
	rr := do(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
