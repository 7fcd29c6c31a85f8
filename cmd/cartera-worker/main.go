package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cartera/internal/amqp"
	"cartera/internal/config"
	applog "cartera/internal/log"
	"cartera/internal/services"
	"cartera/internal/sheets"
	gsheet "cartera/internal/sheets/google"
	mem "cartera/internal/sheets/memory"
	"cartera/internal/storage"
	"cartera/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.LevelFromEnv(),
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting cartera-worker")

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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Spreadsheet source: Google when credentials are present, otherwise an
	// empty in-memory store so the worker still serves recurring templates.
	var reader sheets.RowReader
	if client, err := gsheet.NewFromEnv(ctx); err == nil {
		reader = client
		logger.Info("Google Sheets client initialized")
	} else {
		reader = mem.New()
		logger.Info("Google Sheets disabled, using in-memory row source", "reason", err)
	}

	imports := services.NewImportService(repo, reader)
	templates := services.NewTemplateService(repo)
	importWorker := worker.NewImportWorker(imports, templates)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return consumeWithReconnect(ctx, cfg, importWorker, logger)
	})
	group.Go(func() error {
		return importWorker.RunRecurringLoop(ctx, cfg.RecurringInterval)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// consumeWithReconnect keeps a consumer alive across broker restarts,
// backing off exponentially between attempts.
func consumeWithReconnect(ctx context.Context, cfg *config.Config, importWorker *worker.ImportWorker, logger *applog.Logger) error {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			delay := amqp.ExponentialBackoff(attempt)
			attempt++
			logger.Error("Failed to connect to AMQP, retrying",
				"error", err, "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		attempt = 0

		err = client.ConsumeImportJobs(ctx, func(msg *amqp.ImportJobMessage) error {
			return importWorker.HandleImportJob(ctx, msg)
		})
		client.Close()

		if errors.Is(err, context.Canceled) {
			return err
		}
		logger.Error("Import job consumption ended, reconnecting", "error", err)
	}
}
