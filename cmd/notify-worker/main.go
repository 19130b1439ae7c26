package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"masraf/internal/amqp"
	"masraf/internal/config"
	"masraf/internal/core"
	applog "masraf/internal/log"
	"masraf/internal/notify"
)

// notify-worker consumes queued limit-breach notifications and delivers them
// by email. Pairs with the amqp notifier backend in the API and summary
// worker processes.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel)

	logger.Info("Starting notify-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		logger.Error("SMTP_HOST and SMTP_FROM are required for notify-worker")
		os.Exit(1)
	}

	mailer := notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	handler := func(msg *amqp.NotificationMessage) error {
		sendCtx, sendCancel := context.WithTimeout(ctx, cfg.NotifyTimeout)
		defer sendCancel()

		return mailer.Send(sendCtx, core.Notification{
			UserID:  msg.UserID,
			To:      msg.To,
			Period:  core.SummaryType(msg.Period),
			Subject: msg.Subject,
			Body:    msg.Body,
		})
	}

	err := amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, handler)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Notification consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Notify worker stopped")
}
