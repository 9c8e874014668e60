package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/jewisonj/Purina-Tracker/internal/app"
	"github.com/jewisonj/Purina-Tracker/internal/auth"
	"github.com/jewisonj/Purina-Tracker/internal/invoices"
	"github.com/jewisonj/Purina-Tracker/internal/ledger"
	"github.com/jewisonj/Purina-Tracker/internal/observability"
	"github.com/jewisonj/Purina-Tracker/internal/platform/cache"
	"github.com/jewisonj/Purina-Tracker/internal/platform/sheets"
	"github.com/jewisonj/Purina-Tracker/internal/pricelist"
	"github.com/jewisonj/Purina-Tracker/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, throttling and jobs degraded", slog.Any("error", err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	pinHash := cfg.AppPINHash
	if pinHash == "" {
		pinHash, err = auth.HashPIN(cfg.AppPIN)
		if err != nil {
			logger.Error("hash pin", slog.Any("error", err))
			os.Exit(1)
		}
	}

	authService := auth.NewService(auth.ServiceConfig{
		PINHash: pinHash,
		Secret:  cfg.JWTSecret,
		Expiry:  cfg.JWTExpiry,
	}, redisClient, logger)

	ledgerService := ledger.NewService(store, logger, ledger.ServiceConfig{CacheTTL: cfg.CacheTTL})
	importer := pricelist.NewImporter(store, ledgerService, logger)
	invoiceService := invoices.NewService(store, logger, nil)

	var archiveQueue pricelist.ArchiveQueue
	if redisClient != nil {
		jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := jobsClient.Close(); err != nil {
				logger.Warn("jobs client close", slog.Any("error", err))
			}
		}()
		archiveQueue = jobsClient
	}

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      auth.NewHandler(logger, authService, cfg.JWTExpiryDays()),
		LedgerHandler:    ledger.NewHandler(logger, ledgerService),
		PriceListHandler: pricelist.NewHandler(logger, importer, store, archiveQueue),
		InvoicesHandler:  invoices.NewHandler(logger, invoiceService),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
