package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/email"
	"github.com/Domenick1991/eventbooking/internal/kafka"
	"github.com/Domenick1991/eventbooking/internal/logger"
	"github.com/rs/zerolog"
)

// The worker delivers lifecycle notification emails published by the API in kafka mode.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		startupLog := zerolog.New(os.Stderr)
		startupLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Log, "eventbooking-worker")

	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal().Msg("kafka.brokers is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transport, err := email.NewTransport(cfg.SMTP, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init mail transport")
	}
	sender := email.NewSender(transport, email.Config{ReviewBaseURL: cfg.Notifications.ReviewBaseURL}, log)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	log.Info().Str("topic", cfg.Kafka.NotificationsTopic).Str("group", cfg.Kafka.GroupID).Msg("worker started")
	if err := consumer.Consume(ctx, kafka.NotificationHandler(sender, log)); err != nil {
		log.Error().Err(err).Msg("consumer stopped")
		return
	}
	log.Info().Msg("worker stopped")
}
