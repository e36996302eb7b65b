package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func WithSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()

	return ctx, cancel
}

// Runner is a long-lived component. It must return once ctx is done.
type Runner func(ctx context.Context) error

// Closer releases a component after every runner has returned.
type Closer func(ctx context.Context) error

// Run starts every runner and waits for all of them. The first runner to fail
// cancels the rest. Closers run in reverse order with the given grace period.
func Run(ctx context.Context, log *slog.Logger, grace time.Duration, runners []Runner, closers ...Closer) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, run := range runners {
		run := run
		g.Go(func() error { return run(gctx) })
	}
	err := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	for i := len(closers) - 1; i >= 0; i-- {
		if cerr := closers[i](closeCtx); cerr != nil {
			log.Error("shutdown step failed", "err", cerr)
		}
	}
	return err
}
