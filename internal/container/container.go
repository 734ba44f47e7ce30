package container

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-vegan-diet-assistant/app/db"
	appMiddleware "github.com/FACorreiaa/go-vegan-diet-assistant/app/middleware"
	"github.com/FACorreiaa/go-vegan-diet-assistant/config"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/bodymetrics"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/chat"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/detector"
	generativeAI "github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/generative_ai"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/meals"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/nutrition"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/router"
)

// Container holds all application dependencies.
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	AIClient         *generativeAI.AIClient
	SessionTokens    *appMiddleware.SessionTokens
	DetectorHandler  *detector.HandlerImpl
	NutritionHandler *nutrition.HandlerImpl
	BodyHandler      *bodymetrics.HandlerImpl
	MealsHandler     *meals.HandlerImpl
	ChatHandler      *chat.HandlerImpl
}

// NewContainer initializes and returns a new dependency container.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if cfg.LLM.APIKey != "" {
		ai, err := generativeAI.NewAIClient(ctx, cfg.LLM.APIKey,
			generativeAI.WithModel(cfg.LLM.Model),
			generativeAI.WithTemperature(cfg.LLM.Temperature))
		if err != nil {
			return nil, err
		}
		c.AIClient = ai
	} else {
		logger.Warn("GOOGLE_GEMINI_API_KEY is not set, chat answers will report the missing key")
	}

	// Detector
	backend, err := newDetectorBackend(ctx, cfg, c.AIClient)
	if err != nil {
		return nil, err
	}
	detectorService := detector.NewServiceImpl(backend, cfg.Detector.ConfidenceThreshold, cfg.Detector.ClassNames, logger)
	c.DetectorHandler = detector.NewHandlerImpl(detectorService, cfg.Detector.MaxUploadBytes, logger)
	logger.Info("Food detector configured", slog.String("backend", backend.Name()))

	// Nutrition
	table, err := nutrition.LoadTable(cfg.Nutrition.TablePath)
	if err != nil {
		logger.Warn("Nutrition table unavailable, every label will count as zero",
			slog.String("path", cfg.Nutrition.TablePath), slog.Any("error", err))
		table = nutrition.NewTable(nil)
	} else {
		logger.Info("Nutrition table loaded", slog.Int("foods", table.Len()))
	}
	nutritionService := nutrition.NewServiceImpl(table, detectorService, logger)
	c.NutritionHandler = nutrition.NewHandlerImpl(nutritionService, cfg.Detector.MaxUploadBytes, logger)

	// Body metrics
	c.BodyHandler = bodymetrics.NewHandlerImpl(logger)

	// Meals
	mealsRepo, err := c.newMealsRepository(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.MealsHandler = meals.NewHandlerImpl(meals.NewServiceImpl(mealsRepo, logger), logger)

	// Chat
	secret := cfg.Chat.TokenSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("CHAT_TOKEN_SECRET is not set, using a random secret; sessions end on restart")
	}
	tokens, err := appMiddleware.NewSessionTokens(secret, cfg.Chat.SessionTTL)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.SessionTokens = tokens

	var (
		llm      chat.LLM
		embedder chat.Embedder
	)
	if c.AIClient != nil {
		llm = c.AIClient
		embedder = generativeAI.NewEmbeddingService(c.AIClient, cfg.LLM.EmbeddingModel, logger)
	} else {
		missing := unavailableModel{err: errors.New("GOOGLE_GEMINI_API_KEY environment variable is not set")}
		llm, embedder = missing, missing
	}
	opts := IndexOptions(cfg)
	index := chat.NewLazyIndex(func(ctx context.Context) (*chat.Index, error) {
		return chat.BuildOrLoadIndex(ctx, opts, embedder, logger)
	})
	// Build or load the index now so the first question does not pay for it.
	index.Start(ctx)
	chatService := chat.NewServiceImpl(llm, embedder, index, chat.NewSessionStore(cfg.Chat.SessionTTL), cfg.Chat.TopK, logger)
	c.ChatHandler = chat.NewHandlerImpl(chatService, tokens, logger)

	return c, nil
}

// IndexOptions maps the chat configuration to index build options.
func IndexOptions(cfg *config.Config) chat.IndexOptions {
	return chat.IndexOptions{
		DocumentsPath: cfg.Chat.DocumentsPath,
		IndexPath:     cfg.Chat.IndexPath,
		ChunkSize:     cfg.Chat.ChunkSize,
		ChunkOverlap:  cfg.Chat.ChunkOverlap,
		EmbedBatch:    cfg.Chat.EmbedBatch,
		Model:         cfg.LLM.EmbeddingModel,
	}
}

func newDetectorBackend(ctx context.Context, cfg *config.Config, ai *generativeAI.AIClient) (detector.Backend, error) {
	d := cfg.Detector
	switch strings.ToLower(d.Backend) {
	case "", "remote":
		if d.RemoteURL == "" {
			return nil, errors.New("detector.remoteURL is required for the remote backend")
		}
		return detector.NewRemoteBackend(d.RemoteURL, d.Timeout), nil
	case "gemini":
		if ai == nil {
			return nil, errors.New("the gemini detector backend needs GOOGLE_GEMINI_API_KEY")
		}
		return detector.NewGeminiBackend(ai.Models(), cfg.LLM.VisionModel), nil
	case "rekognition":
		return detector.NewRekognitionBackend(ctx, d.AWSRegion, d.MaxLabels, d.ConfidenceThreshold)
	default:
		return nil, fmt.Errorf("unknown detector backend %q", d.Backend)
	}
}

func (c *Container) newMealsRepository(ctx context.Context) (meals.Repository, error) {
	if !strings.EqualFold(c.Config.Meals.Driver, "postgres") {
		c.Logger.Info("Meal calendar stored in CSV", slog.String("path", c.Config.Meals.CSVPath))
		return meals.NewCSVRepository(c.Config.Meals.CSVPath, c.Logger)
	}

	dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
	if err != nil {
		c.Logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
		c.Logger.Error("Failed to run database migrations", slog.Any("error", err))
		return nil, err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
	if err != nil {
		c.Logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}
	c.Pool = pool
	if !database.WaitForDB(ctx, pool, c.Logger) {
		return nil, errors.New("database not ready after waiting")
	}
	return meals.NewPostgresRepository(pool, c.Logger), nil
}

// RouterConfig returns the handlers wired for router.SetupRouter.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		DetectorHandler:    c.DetectorHandler,
		NutritionHandler:   c.NutritionHandler,
		BodyHandler:        c.BodyHandler,
		MealsHandler:       c.MealsHandler,
		ChatHandler:        c.ChatHandler,
		SessionMiddleware:  appMiddleware.ChatSession(c.SessionTokens),
		RateLimitPerMinute: c.Config.Server.RateLimit,
	}
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// unavailableModel stands in for the hosted model when no API key is configured.
type unavailableModel struct {
	err error
}

func (u unavailableModel) GenerateContent(context.Context, string) (string, error) {
	return "", u.err
}

func (u unavailableModel) GenerateContentStream(context.Context, string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) { yield("", u.err) }
}

func (u unavailableModel) EmbedTexts(context.Context, []string, string) ([][]float32, error) {
	return nil, u.err
}
