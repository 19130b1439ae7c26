package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"masraf/internal/amqp"
	"masraf/internal/config"
	"masraf/internal/export"
	gsheet "masraf/internal/export/google"
	apphttp "masraf/internal/http"
	applog "masraf/internal/log"
	"masraf/internal/notify"
	"masraf/internal/services"
	"masraf/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel)

	logger.Info("Starting masraf")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, storage.DuplicatePolicy(cfg.SummaryDuplicatePolicy))
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Notification backend
	var notifier notify.Notifier
	switch cfg.NotifierBackend {
	case "amqp":
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		notifier = notify.NewQueueNotifier(amqpClient)
		logger.Info("Using AMQP notifier", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	case "smtp":
		notifier = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
		logger.Info("Using SMTP notifier", "host", cfg.SMTPHost, "from", cfg.SMTPFrom)
	default:
		notifier = notify.LogNotifier{}
		logger.Info("Using log notifier")
	}

	aggregator := services.NewAggregator(repo)
	evaluator := services.NewEvaluator(notifier, cfg.NotifyTimeout)
	txService := services.NewTransactionService(repo, repo, aggregator, evaluator)

	summaryJob := services.NewSummaryJob(repo, repo, aggregator, evaluator, cfg.SummaryWorkers)
	if cfg.GoogleSpreadsheetID != "" {
		var exporter export.SummaryWriter
		exporter, err = gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		summaryJob.WithExporter(exporter)
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, repo, txService, summaryJob)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
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

	logger.Info("Listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped")
}
