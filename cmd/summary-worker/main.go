package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"masraf/internal/amqp"
	"masraf/internal/config"
	"masraf/internal/export"
	gsheet "masraf/internal/export/google"
	applog "masraf/internal/log"
	"masraf/internal/notify"
	"masraf/internal/services"
	"masraf/internal/storage"
)

func main() {
	once := flag.Bool("once", false, "run a single summary pass and exit (for cron)")
	flag.Parse()

	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel)

	logger.Info("Starting summary-worker", "once", *once)

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
	case "smtp":
		notifier = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	default:
		notifier = notify.LogNotifier{}
	}

	aggregator := services.NewAggregator(repo)
	evaluator := services.NewEvaluator(notifier, cfg.NotifyTimeout)
	job := services.NewSummaryJob(repo, repo, aggregator, evaluator, cfg.SummaryWorkers)

	if cfg.GoogleSpreadsheetID != "" {
		var exporter export.SummaryWriter
		exporter, err = gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		job.WithExporter(exporter)
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if *once {
		if _, err := job.Run(ctx); err != nil {
			logger.Error("Summary run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Daemon mode: run once per day at the configured wall-clock time.
	runAt, err := config.ParseClock(cfg.SummaryRunAt)
	if err != nil {
		logger.Error("Invalid summary run time", "error", err, "run_at", cfg.SummaryRunAt)
		os.Exit(1)
	}

	for {
		next := runAt.Next(time.Now())
		logger.Info("Next summary run scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			logger.Info("Summary worker stopped")
			return
		case <-time.After(time.Until(next)):
		}

		if _, err := job.Run(ctx); err != nil {
			logger.Error("Summary run failed", "error", err)
		}
	}
}
