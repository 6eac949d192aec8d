package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelkov/tripdesk/config"
	"github.com/avelkov/tripdesk/internal/bootstrap"
	"github.com/avelkov/tripdesk/internal/cache"
	"github.com/avelkov/tripdesk/internal/kafka"
	"github.com/avelkov/tripdesk/internal/repository"
	"github.com/avelkov/tripdesk/internal/service/booking"
	"github.com/avelkov/tripdesk/internal/service/catalog"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	catalogRepo := repository.NewCatalogRepository(pool)
	tourRepo := repository.NewTourRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	visaRepo := repository.NewVisaRepository(pool)
	visaBookingRepo := repository.NewVisaBookingRepository(pool)

	catalogService := catalog.NewCatalogService(catalogRepo, redisCache,
		time.Duration(cfg.Catalog.ReorderLockTTLSeconds)*time.Second)
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

	if err := bootstrap.Run(ctx, cfg, catalogService, tourRepo, bookingService, visaService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
