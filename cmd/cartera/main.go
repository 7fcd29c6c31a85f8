package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cartera/internal/amqp"
	"cartera/internal/config"
	apphttp "cartera/internal/http"
	"cartera/internal/llm"
	applog "cartera/internal/log"
	"cartera/internal/services"
	"cartera/internal/storage"
)

func main() {
	// Load .env for local development; absent in production is fine.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	valuations := services.NewValuationService(repo)
	contexts := services.NewContextBuilder(repo, valuations)

	var completer services.Completer
	if cfg.LLMEnabled() {
		completer = llm.NewClient(llm.Config{
			BaseURL:     cfg.LLMBaseURL,
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
			Timeout:     cfg.LLMTimeout,
		})
		logger.Info("Chat model client initialized", "model", cfg.LLMModel)
	} else {
		logger.Info("Chat model disabled - no LLM_BASE_URL/LLM_MODEL provided")
	}

	// AMQP is optional; without it the import endpoint degrades to 503.
	var importJobs apphttp.ImportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, imports disabled", "error", err)
		} else {
			defer amqpClient.Close()
			importJobs = amqpClient
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, logger, apphttp.Deps{
		Storage:    repo,
		Categories: services.NewCategoryService(repo),
		Budgets:    services.NewBudgetService(repo),
		Dashboard:  services.NewDashboardService(repo),
		Valuations: valuations,
		Templates:  services.NewTemplateService(repo),
		Contexts:   contexts,
		Chat:       services.NewChatService(contexts, completer),
		ImportJobs: importJobs,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 60 * time.Second // chat requests wait on the model
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting cartera server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
