package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	catalogapp "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/application"
	checkoutapp "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/application"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/messaging"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/session"
	commentapp "github.com/dmehra2102/Bookstore-Storefront/internal/comment/application"
	"github.com/dmehra2102/Bookstore-Storefront/internal/config"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notify"
	ratingapp "github.com/dmehra2102/Bookstore-Storefront/internal/rating/application"
	storefronthttp "github.com/dmehra2102/Bookstore-Storefront/internal/storefront/http"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/health"
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
	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}

	be, err := openBackend(ctx, log, cfg)
	if err != nil {
		log.Error("storage init failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}

	catalog := catalogapp.NewService(log, be.books)
	if _, err := catalog.Refresh(ctx); err != nil {
		log.Warn("initial catalog load failed", "err", err)
	}

	notices := notify.NewRequestNotifier(log)
	sessions, err := session.NewRegistry(log, catalog, cfg.SessionCapacity)
	if err != nil {
		log.Error("session registry init failed", "err", err)
		os.Exit(1)
	}
	dispatcher := checkoutapp.NewDispatcher(log, be.orders,
		messaging.WhatsApp{Number: cfg.MerchantWhatsApp},
		messaging.Email{Address: cfg.MerchantEmail, Subject: cfg.CheckoutEmailSubject},
		notices,
		checkoutapp.RequirePhone(cfg.CheckoutRequirePhone),
		checkoutapp.RecordMessagingOrders(cfg.RecordMessagingOrders),
	)

	handler := storefronthttp.NewHandler(log, storefronthttp.Deps{
		Catalog:    catalog,
		Ratings:    ratingapp.NewService(log, be.ratings, notices),
		Comments:   commentapp.NewService(log, be.comments, notices),
		Dispatcher: dispatcher,
		Sessions:   sessions,
		Verifier:   auth.NewVerifier(log, cfg.JWTSecret),
		Origins:    cfg.CORSOrigins,
	})
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	hs := health.NewServer(log)
	hs.SetServing("", true)

	runners := append([]shutdown.Runner{
		func(ctx context.Context) error { return serveHTTP(ctx, srv, log) },
		func(ctx context.Context) error { return hs.Run(ctx, cfg.GRPCAddr) },
		func(ctx context.Context) error { return catalog.RunRefresh(ctx, cfg.CatalogRefresh) },
	}, be.runners...)
	closers := append([]shutdown.Closer{tp.Shutdown}, be.closers...)

	if err := shutdown.Run(ctx, log, 10*time.Second, runners, closers...); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("storefront-service stopped", "err", err)
		os.Exit(1)
	}
	log.Info("storefront-service shutdown complete")
}

func serveHTTP(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("http listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
