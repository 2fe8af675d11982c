package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/axiestudio/assistant-api/internal/api/router"
	"github.com/axiestudio/assistant-api/internal/app/bootstrap"
	appconfig "github.com/axiestudio/assistant-api/internal/config"
	"github.com/axiestudio/assistant-api/internal/contact"
	"github.com/axiestudio/assistant-api/internal/conversation"
	"github.com/axiestudio/assistant-api/internal/observability/metrics"
	"github.com/axiestudio/assistant-api/internal/webchat"
	"github.com/axiestudio/assistant-api/pkg/logging"
)

func main() {
	// Load .env in local development; silently absent in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.OpenAIAPIKey == "" {
		logger.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	cancel()

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	stateStore := bootstrap.BuildStateStore(redisClient, cfg, logger)
	transcriptStore := bootstrap.BuildTranscriptStore(redisClient, cfg, logger)
	knowledgeSource := bootstrap.BuildKnowledge(redisClient, logger)

	llm := conversation.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	svc := conversation.NewService(llm, transcriptStore, stateStore, knowledgeSource, pipelineMetrics, logger, conversation.Options{
		CompletionTimeout: cfg.CompletionTimeout,
		MaxTokens:         int32(cfg.MaxTokens),
		Temperature:       float32(cfg.Temperature),
		HistoryWindow:     cfg.HistoryWindow,
		DefaultLanguage:   conversation.Language(cfg.DefaultLanguage),
	})

	notifier := contact.NewWebhookNotifier(cfg.ContactWebhookURL, cfg.TelegramChatID, nil, pipelineMetrics, logger)

	webchatHandler := webchat.NewHandler(svc, logger)
	contactHandler := contact.NewHandler(notifier, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Webchat:            webchatHandler,
		Contact:            contactHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSec:    1,
		RateLimitBurst:     5,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
}
