package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/skyfare/booking/config"
	"github.com/skyfare/booking/internal/bootstrap"
	"github.com/skyfare/booking/internal/cache"
	"github.com/skyfare/booking/internal/kafka"
	"github.com/skyfare/booking/internal/pricing"
	"github.com/skyfare/booking/internal/repository"
	"github.com/skyfare/booking/internal/service/checkin"
	"github.com/skyfare/booking/internal/service/draft"
	"github.com/skyfare/booking/internal/service/flights"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log := newLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.Migrate(ctx, cfg.Database.DSN()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Booking.DraftTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.SeatMapCacheTTL)*time.Second,
		time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	checkinRepo := repository.NewCheckinRepository(pool)

	flightService := flights.NewFlightService(flightRepo, seatRepo, redisCache)
	draftService := draft.NewDraftService(
		flightService,
		bookingRepo,
		redisCache,
		producer,
		cfg.Kafka.ReservationsTopic,
		pricing.NewAggregator(cfg.Booking.MealPrice),
		draft.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		draft.WithLogger(log),
	)
	checkinService := checkin.NewCheckinService(
		checkinRepo,
		flightService,
		redisCache,
		producer,
		cfg.Kafka.CheckinTopic,
		time.Duration(cfg.Checkin.WindowHours)*time.Hour,
		time.Duration(cfg.Booking.PaymentTTLMinutes)*time.Minute,
		checkin.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		checkin.WithLogger(log),
	)

	if err := bootstrap.Run(ctx, cfg, log, flightService, draftService, checkinService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
