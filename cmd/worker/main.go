package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/jewisonj/Purina-Tracker/internal/app"
	"github.com/jewisonj/Purina-Tracker/internal/ledger"
	"github.com/jewisonj/Purina-Tracker/internal/platform/sheets"
	"github.com/jewisonj/Purina-Tracker/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	store, err := sheets.NewClient(ctx, cfg.SheetID, cfg.GoogleCredentials)
	if err != nil {
		logger.Error("connect spreadsheet", slog.Any("error", err))
		os.Exit(1)
	}

	ledgerService := ledger.NewService(store, logger, ledger.ServiceConfig{CacheTTL: cfg.CacheTTL})

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  jobs.NewHandlers(logger, store, ledgerService),
		Cron: []jobs.CronRegistration{
			{Spec: "0 7 * * *", Task: jobs.NewLowStockScanTask()},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shut down")
}
