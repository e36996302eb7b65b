package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/Bookstore-Storefront/internal/config"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notifier/application"
	notifierkafka "github.com/dmehra2102/Bookstore-Storefront/internal/notifier/infrastructure/kafka"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notifier/infrastructure/mail"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/health"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/idempotency"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/logging"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/shutdown"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "notifier-service", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("redis connect failed", "addr", cfg.RedisAddr, "err", err)
		os.Exit(1)
	}
	idem := idempotency.NewStore(rdb, cfg.IdempotencyTTL)

	var mailer application.Mailer
	switch cfg.MailProvider {
	case config.MailSendgrid:
		mailer = mail.NewSendgrid(cfg.SendgridAPIKey, cfg.MailFrom)
	case config.MailPostmark:
		mailer = mail.NewPostmark(cfg.PostmarkServerToken, cfg.MailFrom)
	default:
		mailer = mail.NewLog(log)
	}
	svc := application.NewService(log, mailer, cfg.MerchantEmail)
	consumer := notifierkafka.NewConsumer(log, []string{cfg.KafkaAddr}, cfg.OutboxTopic, cfg.ConsumerGroup, svc, idem)

	hs := health.NewServer(log)
	hs.SetServing("", true)

	runners := []shutdown.Runner{
		consumer.Run,
		func(ctx context.Context) error { return hs.Run(ctx, cfg.GRPCAddr) },
	}
	closers := []shutdown.Closer{
		tp.Shutdown,
		func(context.Context) error { return rdb.Close() },
	}
	if err := shutdown.Run(ctx, log, 10*time.Second, runners, closers...); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("notifier-service stopped", "err", err)
		os.Exit(1)
	}
	log.Info("notifier-service shutdown complete", "provider", cfg.MailProvider)
}
