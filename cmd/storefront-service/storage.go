package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	catalogapp "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/application"
	catalogpg "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/infrastructure/postgres"
	catalogsqlite "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/infrastructure/sqlite"
	checkoutapp "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/application"
	checkoutpg "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/postgres"
	checkoutsqlite "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/sqlite"
	commentapp "github.com/dmehra2102/Bookstore-Storefront/internal/comment/application"
	commentpg "github.com/dmehra2102/Bookstore-Storefront/internal/comment/infrastructure/postgres"
	commentsqlite "github.com/dmehra2102/Bookstore-Storefront/internal/comment/infrastructure/sqlite"
	"github.com/dmehra2102/Bookstore-Storefront/internal/config"
	platformkafka "github.com/dmehra2102/Bookstore-Storefront/internal/platform/kafka"
	"github.com/dmehra2102/Bookstore-Storefront/internal/platform/postgres"
	"github.com/dmehra2102/Bookstore-Storefront/internal/platform/sqlite"
	ratingapp "github.com/dmehra2102/Bookstore-Storefront/internal/rating/application"
	ratingpg "github.com/dmehra2102/Bookstore-Storefront/internal/rating/infrastructure/postgres"
	ratingsqlite "github.com/dmehra2102/Bookstore-Storefront/internal/rating/infrastructure/sqlite"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/outbox"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/shutdown"
)

// backend bundles the repositories of one storage driver together with the
// background work and cleanup it needs.
type backend struct {
	books    catalogapp.Provider
	ratings  ratingapp.Repository
	comments commentapp.Repository
	orders   checkoutapp.OrderRepository
	runners  []shutdown.Runner
	closers  []shutdown.Closer
}

func openBackend(ctx context.Context, log *slog.Logger, cfg *config.Config) (*backend, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, log, cfg)
	case config.DriverSQLite:
		return openSQLite(ctx, log, cfg)
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.DBDriver)
}

func openPostgres(ctx context.Context, log *slog.Logger, cfg *config.Config) (*backend, error) {
	if err := postgres.Migrate(cfg.PGURL); err != nil {
		return nil, err
	}
	pool, err := postgres.Open(ctx, cfg.PGURL)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}

	writer := platformkafka.NewWriter([]string{cfg.KafkaAddr})
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, postgres.NewOutboxStore(log, pool), dispatch, cfg.ServiceName+"-relay-"+uuid.NewString()[:8])

	return &backend{
		books:    catalogpg.NewRepository(log, pool),
		ratings:  ratingpg.NewRepository(log, pool),
		comments: commentpg.NewRepository(log, pool),
		orders:   checkoutpg.NewRepository(log, pool),
		runners:  []shutdown.Runner{relay.Run},
		closers: []shutdown.Closer{
			func(context.Context) error { pool.Close(); return nil },
			func(context.Context) error { return writer.Close() },
		},
	}, nil
}

// openSQLite serves a single-node store. Order events stay in the local
// outbox table; nothing relays them.
func openSQLite(ctx context.Context, log *slog.Logger, cfg *config.Config) (*backend, error) {
	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	books := catalogsqlite.NewRepository(log, db)
	seeded, err := books.SeedDemo(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if seeded {
		log.Info("demo catalog loaded", "path", cfg.SQLitePath)
	}
	log.Warn("sqlite driver: order events are not published", "path", cfg.SQLitePath)

	return &backend{
		books:    books,
		ratings:  ratingsqlite.NewRepository(log, db),
		comments: commentsqlite.NewRepository(log, db),
		orders:   checkoutsqlite.NewRepository(log, db),
		closers:  []shutdown.Closer{func(context.Context) error { return db.Close() }},
	}, nil
}
