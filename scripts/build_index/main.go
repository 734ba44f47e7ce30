package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	appLogger "github.com/FACorreiaa/go-vegan-diet-assistant/app/logger"
	"github.com/FACorreiaa/go-vegan-diet-assistant/config"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/chat"
	generativeAI "github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/generative_ai"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/container"
)

// Builds the document index ahead of time so the first chat question does not pay for it.
func main() {
	force := flag.Bool("force", false, "rebuild the index even if a snapshot exists")
	timeout := flag.Duration("timeout", 30*time.Minute, "maximum time to spend embedding documents")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := appLogger.New(os.Getenv("APP_ENV"))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ai, err := generativeAI.NewAIClient(ctx, cfg.LLM.APIKey, generativeAI.WithModel(cfg.LLM.Model))
	if err != nil {
		logger.Error("Failed to create AI client", slog.Any("error", err))
		os.Exit(1)
	}
	embedder := generativeAI.NewEmbeddingService(ai, cfg.LLM.EmbeddingModel, logger)

	opts := container.IndexOptions(&cfg)
	opts.Force = *force

	start := time.Now()
	idx, err := chat.BuildOrLoadIndex(ctx, opts, embedder, logger)
	if err != nil {
		logger.Error("Failed to build document index", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Document index ready",
		slog.String("path", opts.IndexPath),
		slog.Int("chunks", idx.Len()),
		slog.Duration("elapsed", time.Since(start)))
}
