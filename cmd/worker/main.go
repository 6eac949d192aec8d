package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/avelkov/tripdesk/config"
	"github.com/avelkov/tripdesk/internal/email"
	"github.com/avelkov/tripdesk/internal/kafka"
	"github.com/avelkov/tripdesk/internal/repository"
	"github.com/avelkov/tripdesk/internal/service/booking"
	"github.com/avelkov/tripdesk/internal/service/visas"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tourRepo := repository.NewTourRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	visaRepo := repository.NewVisaRepository(pool)
	visaBookingRepo := repository.NewVisaBookingRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		tourRepo,
		producer,
		cfg.Kafka.PaymentEventsTopic,
		time.Duration(cfg.Payment.HoldTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	visaService := visas.NewVisaService(
		visaBookingRepo,
		visaRepo,
		producer,
		cfg.Kafka.PaymentEventsTopic,
		time.Duration(cfg.Payment.HoldTTLMinutes)*time.Minute,
		visas.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.PaymentEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := bookingService.ExpireStalePending(ctx)
			if err != nil {
				log.Printf("expire bookings error: %v", err)
			} else if len(expired) > 0 {
				log.Printf("expired %d bookings", len(expired))
			}

			expiredVisas, err := visaService.ExpireStalePending(ctx)
			if err != nil {
				log.Printf("expire visa applications error: %v", err)
			} else if len(expiredVisas) > 0 {
				log.Printf("expired %d visa applications", len(expiredVisas))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
