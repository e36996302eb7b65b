package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	checkout "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notifier/application"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/outbox"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/tracing"
)

type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Claims is the idempotency store guarding against redelivered events.
type Claims interface {
	Key(scope, id string) string
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

type Consumer struct {
	log    *slog.Logger
	reader Reader
	svc    *application.Service
	idem   Claims
	tracer trace.Tracer

	minBackoff time.Duration
	maxBackoff time.Duration
}

type Option func(*Consumer)

// WithBackoff sets the delay before the first retry of a failed message and
// the cap it doubles up to.
func WithBackoff(first, limit time.Duration) Option {
	return func(c *Consumer) {
		if first > 0 && limit >= first {
			c.minBackoff, c.maxBackoff = first, limit
		}
	}
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem Claims, opts ...Option) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return NewConsumerWithReader(log, r, svc, idem, opts...)
}

func NewConsumerWithReader(log *slog.Logger, r Reader, svc *application.Service, idem Claims, opts ...Option) *Consumer {
	c := &Consumer{
		log:        log,
		reader:     r,
		svc:        svc,
		idem:       idem,
		tracer:     otel.Tracer("notifier-consumer"),
		minBackoff: 500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		if err := c.handleUntilDone(ctx, msg); err != nil {
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("commit failed", "offset", msg.Offset, "err", err)
		}
	}
}

// handleUntilDone retries msg with a doubling delay. Offsets are committed in
// order, so nothing after msg is read until it succeeds or ctx ends.
func (c *Consumer) handleUntilDone(ctx context.Context, msg kafka.Message) error {
	delay := c.minBackoff
	for attempt := 1; ; attempt++ {
		err := c.Handle(ctx, msg)
		if err == nil {
			return nil
		}
		c.log.Warn("retrying message", "offset", msg.Offset, "attempt", attempt, "delay", delay, "err", err)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, c.maxBackoff)
	}
}

// Handle processes one message. A nil error means the message may be
// committed.
func (c *Consumer) Handle(ctx context.Context, msg kafka.Message) error {
	if t := tracing.HeaderValue(msg.Headers, outbox.EventTypeHeader); t != checkout.EventOrderPlaced {
		c.log.Debug("ignoring event", "type", t)
		return nil
	}

	msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	msgCtx, span := c.tracer.Start(msgCtx, "ConsumeOrderPlaced")
	defer span.End()

	var ev checkout.OrderPlaced
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		c.log.Error("unmarshal failed", "offset", msg.Offset, "err", err)
		return nil
	}
	span.SetAttributes(attribute.String("order.id", ev.OrderID))

	key := c.idem.Key("order-placed", ev.OrderID)
	seen, err := c.idem.Seen(msgCtx, key)
	if err != nil {
		c.log.Error("idempotency check failed", "err", err)
		return err
	}
	if seen {
		c.log.Info("duplicate event skipped", "key", key)
		return nil
	}

	if err := c.svc.OrderPlaced(msgCtx, ev); err != nil {
		c.log.Error("merchant notification failed", "order_id", ev.OrderID, "err", err)
		span.RecordError(err)
		if ferr := c.idem.Forget(msgCtx, key); ferr != nil {
			c.log.Error("idempotency release failed", "key", key, "err", ferr)
		}
		return err
	}
	return nil
}
