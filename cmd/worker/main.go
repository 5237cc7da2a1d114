// Command worker consumes payment events and emails enrollment receipts.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"summercamp-backend-go/internal/config"
	"summercamp-backend-go/internal/events"
	"summercamp-backend-go/internal/mailer"
)

func main() {
	var zapLogger *zap.Logger
	var err error
	if strings.EqualFold(os.Getenv("GIN_MODE"), "release") {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	if appConfig.RabbitMQURL == "" {
		zapLogger.Fatal("RABBITMQ_URL is required for the worker")
	}

	m, err := mailer.New(appConfig.SMTPHost, appConfig.SMTPPort, appConfig.SMTPUser, appConfig.SMTPPass, appConfig.MailSender)
	if err != nil {
		zapLogger.Fatal("Failed to configure mailer", zap.Error(err))
	}

	rabbit, err := events.NewRabbitMQ(appConfig.RabbitMQURL, appConfig.PaymentEventsQueue, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rabbit.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zapLogger.Info("Worker started", zap.String("queue", appConfig.PaymentEventsQueue))
	err = rabbit.Consume(ctx, func(ctx context.Context, event events.PaymentRecorded) error {
		if err := m.SendReceipt(event); err != nil {
			return err
		}
		zapLogger.Info("Receipt sent", zap.String("paymentId", event.PaymentID), zap.String("email", event.Email))
		return nil
	})
	if err != nil && ctx.Err() == nil {
		zapLogger.Fatal("Consumer stopped", zap.Error(err))
	}
	zapLogger.Info("Worker exiting gracefully.")
}
