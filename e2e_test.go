package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FACorreiaa/go-vegan-diet-assistant/config"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/container"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/router"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

// E2ETestSuite boots the full container with a fake model server, a CSV
// nutrition table and a CSV meal calendar, then drives the public API.
type E2ETestSuite struct {
	suite.Suite
	modelServer *httptest.Server
	server      *httptest.Server
	client      *http.Client
	container   *container.Container
	dir         string
}

func (suite *E2ETestSuite) SetupSuite() {
	suite.dir = suite.T().TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	suite.modelServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.PredictResponse{
			Status: "success",
			Detections: []types.Detection{
				{BBox: [4]float64{1, 1, 10, 10}, Class: 0, ClassName: "tofu", Confidence: 0.91},
				{BBox: [4]float64{2, 2, 12, 12}, Class: 2, ClassName: "rice", Confidence: 0.64},
				{BBox: [4]float64{0, 0, 3, 3}, Class: 4, ClassName: "salad", Confidence: 0.1},
			},
		})
	}))

	tablePath := filepath.Join(suite.dir, "foods.csv")
	table := "food,calories,protein,carbs,fat,calcium,iron\n" +
		"tofu,76,8.1,1.9,4.8,350,5.4\n" +
		"rice,130,2.7,28,0.3,10,0.2\n"
	suite.Require().NoError(os.WriteFile(tablePath, []byte(table), 0o644))
	suite.Require().NoError(os.MkdirAll(filepath.Join(suite.dir, "reports"), 0o755))

	cfg := &config.Config{}
	cfg.Server.Timeout = 30 * time.Second
	cfg.Detector = config.Detector{
		Backend:             "remote",
		ConfidenceThreshold: 0.25,
		ClassNames:          []string{"tofu", "tempeh", "rice"},
		MaxUploadBytes:      1 << 20,
		RemoteURL:           suite.modelServer.URL + "/predict",
		Timeout:             5 * time.Second,
	}
	cfg.Nutrition.TablePath = tablePath
	cfg.Meals.Driver = "csv"
	cfg.Meals.CSVPath = filepath.Join(suite.dir, "meal_data.csv")
	cfg.Chat = config.Chat{
		DocumentsPath: filepath.Join(suite.dir, "reports"),
		IndexPath:     filepath.Join(suite.dir, "vector_index.gob"),
		ChunkSize:     1000,
		ChunkOverlap:  100,
		TopK:          5,
		EmbedBatch:    50,
		SessionTTL:    time.Hour,
		TokenSecret:   "e2e-secret",
	}
	cfg.LLM.EmbeddingModel = "text-embedding-004"

	c, err := container.NewContainer(context.Background(), cfg, logger)
	suite.Require().NoError(err)
	suite.container = c

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID, middleware.Recoverer, middleware.StripSlashes)
	mux.Mount("/", router.SetupRouter(c.RouterConfig()))

	suite.server = httptest.NewServer(mux)
	suite.client = &http.Client{Timeout: 10 * time.Second}
}

func (suite *E2ETestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.modelServer != nil {
		suite.modelServer.Close()
	}
	if suite.container != nil {
		suite.container.Close()
	}
}

func (suite *E2ETestSuite) doJSON(method, path string, body interface{}, token string) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, suite.server.URL+path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	return resp
}

func (suite *E2ETestSuite) upload(path string) *http.Response {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	img.Set(4, 4, color.RGBA{R: 200, G: 180, B: 90, A: 255})
	var pngBuf bytes.Buffer
	suite.Require().NoError(png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "meal.png")
	suite.Require().NoError(err)
	_, err = part.Write(pngBuf.Bytes())
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	resp, err := suite.client.Post(suite.server.URL+path, mw.FormDataContentType(), &body)
	suite.Require().NoError(err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (suite *E2ETestSuite) TestHealth() {
	resp, err := suite.client.Get(suite.server.URL + "/health")
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, resp.StatusCode)
	body := decode[types.HealthResponse](suite.T(), resp)
	suite.Equal("healthy", body.Status)
}

func (suite *E2ETestSuite) TestPredictFiltersLowConfidence() {
	resp := suite.upload("/predict")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	body := decode[types.PredictResponse](suite.T(), resp)
	suite.Equal("success", body.Status)
	suite.Require().Len(body.Detections, 2)
	suite.Equal("tofu", body.Detections[0].ClassName)
	suite.Equal("rice", body.Detections[1].ClassName)
	suite.Equal(2, body.Detections[1].Class)
}

func (suite *E2ETestSuite) TestAnalyzeMealPhoto() {
	resp := suite.upload("/api/v1/nutrition/analyze")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	analysis := decode[types.MealAnalysis](suite.T(), resp)
	suite.Len(analysis.Dishes, 2)
	suite.InDelta(206, analysis.Totals.Calories, 1e-9)
	suite.InDelta(10.8, analysis.Totals.Protein, 1e-9)
	suite.NotEmpty(analysis.Comments)
}

func (suite *E2ETestSuite) TestMealCalendarWorkflow() {
	today := time.Now().Format("2006-01-02")
	for _, meal := range []types.CreateMealRequest{
		{Date: today, Meal: types.MealBreakfast, Calories: 400, Protein: 20, Carbs: 60, Fat: 10},
		{Date: today, Meal: types.MealDinner, Calories: 600, Protein: 30, Carbs: 80, Fat: 20},
	} {
		resp := suite.doJSON(http.MethodPost, "/api/v1/meals", meal, "")
		suite.Require().Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := suite.doJSON(http.MethodGet, "/api/v1/meals/summary?days=7", nil, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	summary := decode[[]types.DailySummary](suite.T(), resp)
	suite.Require().Len(summary, 1)
	suite.Equal(today, summary[0].Date)
	suite.InDelta(1000, summary[0].Calories, 1e-9)

	resp = suite.doJSON(http.MethodGet, "/api/v1/meals/summary?days=3", nil, "")
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = suite.doJSON(http.MethodGet, "/api/v1/meals/recommendations", nil, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	recs := decode[types.MealRecommendations](suite.T(), resp)
	suite.InDelta(25, recs.AvgProtein, 1e-9)
	suite.Len(recs.Advice, 3)

	raw, err := os.ReadFile(filepath.Join(suite.dir, "meal_data.csv"))
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(string(raw), "Date,Meal,Calories,Protein,Carbs,Fat\n"))
}

func (suite *E2ETestSuite) TestBodyMetrics() {
	resp := suite.doJSON(http.MethodPost, "/api/v1/body/bmi", types.BMIRequest{WeightKg: 70, HeightM: 1.75}, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	bmi := decode[types.BMIResponse](suite.T(), resp)
	suite.InDelta(22.86, bmi.BMI, 0.01)
}

func (suite *E2ETestSuite) TestChatWithoutModelKeyAnswersWithError() {
	resp := suite.doJSON(http.MethodPost, "/api/v1/chat/sessions", nil, "")
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	session := decode[types.ChatSessionResponse](suite.T(), resp)
	suite.Require().NotEmpty(session.Token)
	suite.Len(session.Messages, 1)

	resp = suite.doJSON(http.MethodPost, "/api/v1/chat/messages",
		types.ChatQuestionRequest{Question: "How much protein does tofu have?"}, session.Token)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	answer := decode[types.ChatAnswerResponse](suite.T(), resp)
	suite.True(strings.HasPrefix(answer.Answer, "error: "), answer.Answer)

	resp = suite.doJSON(http.MethodGet, "/api/v1/chat/messages", nil, "")
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (suite *E2ETestSuite) TestChatStreamEndsWithComplete() {
	resp := suite.doJSON(http.MethodPost, "/api/v1/chat/sessions", nil, "")
	session := decode[types.ChatSessionResponse](suite.T(), resp)

	resp = suite.doJSON(http.MethodPost, "/api/v1/chat/messages/stream",
		types.ChatQuestionRequest{Question: "Is seitan a good protein source?"}, session.Token)
	defer resp.Body.Close()
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(resp.Header.Get("Content-Type"), "text/event-stream")

	raw, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	stream := string(raw)
	suite.Contains(stream, fmt.Sprintf("event: %s", types.EventTypeError))
	suite.Contains(stream, fmt.Sprintf("event: %s", types.EventTypeComplete))
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end suite in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
