package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/skyfare/booking/config"
	"github.com/skyfare/booking/internal/cache"
	"github.com/skyfare/booking/internal/kafka"
	"github.com/skyfare/booking/internal/notify"
	"github.com/skyfare/booking/internal/repository"
	"github.com/skyfare/booking/internal/service/checkin"
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

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
	checkinRepo := repository.NewCheckinRepository(pool)
	flightService := flights.NewFlightService(flightRepo, seatRepo, redisCache)
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	sender := notify.NewSender(log)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			return sender.Send(ctx, msg.Value)
		}); err != nil {
			log.WithError(err).Warn("consumer stopped")
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := checkinService.ExpireProposedChanges(ctx)
			if err != nil {
				log.WithError(err).Warn("expire seat changes")
				continue
			}
			if len(expired) > 0 {
				log.WithField("count", len(expired)).Info("expired seat change proposals")
			}
		case s := <-sig:
			log.WithField("signal", s.String()).Info("shutting down")
			return
		}
	}
}
