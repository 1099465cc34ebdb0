package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/bootstrap"
	"github.com/Domenick1991/eventbooking/internal/cache"
	"github.com/Domenick1991/eventbooking/internal/email"
	"github.com/Domenick1991/eventbooking/internal/kafka"
	"github.com/Domenick1991/eventbooking/internal/logger"
	"github.com/Domenick1991/eventbooking/internal/notify"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/Domenick1991/eventbooking/internal/service/reviews"
	"github.com/Domenick1991/eventbooking/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

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
	log := logger.New(cfg.Log, "eventbooking-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Migrate {
		if err := migrations.Up(ctx, cfg.Database.DSN()); err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.ReviewsCacheTTL())
	defer redisCache.Close()

	notifier, closeNotifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init notifications")
	}
	defer closeNotifier()

	bookingRepo := repository.NewBookingRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		notifier,
		booking.WithIDAttempts(cfg.Booking.IDAttempts),
		booking.WithReviewCache(redisCache),
		booking.WithLogger(log.With().Str("component", "booking").Logger()),
	)
	reviewService := reviews.NewReviewService(reviewRepo, bookingRepo, redisCache, log.With().Str("component", "reviews").Logger())

	if err := bootstrap.Run(ctx, cfg, bookingService, reviewService, log); err != nil {
		log.Error().Err(err).Msg("server error")
		return
	}
}

// newNotifier wires lifecycle notifications either to the in-process queue or to Kafka.
func newNotifier(ctx context.Context, cfg *config.Config, log zerolog.Logger) (booking.Notifier, func(), error) {
	if cfg.Notifications.Mode == config.NotificationModeKafka {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		if err := producer.CheckConnection(ctx); err != nil {
			log.Warn().Err(err).Msg("kafka is not reachable, notifications may be lost")
		}
		publisher := kafka.NewNotificationPublisher(producer, cfg.Kafka.NotificationsTopic, 10*time.Second)
		return publisher, func() {
			if err := producer.Close(); err != nil {
				log.Error().Err(err).Msg("close kafka producer")
			}
		}, nil
	}

	transport, err := email.NewTransport(cfg.SMTP, log)
	if err != nil {
		return nil, nil, err
	}
	sender := email.NewSender(transport, email.Config{ReviewBaseURL: cfg.Notifications.ReviewBaseURL}, log)

	queue := notify.NewQueue(sender, cfg.Notifications.QueueSize, log,
		notify.WithWorkers(cfg.Notifications.Workers),
		notify.WithSendTimeout(cfg.SMTP.Timeout()),
	)
	queue.Start()
	return queue, func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := queue.Close(drainCtx); err != nil {
			log.Error().Err(err).Msg("drain notification queue")
		}
	}, nil
}
