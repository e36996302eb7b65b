package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/Bookstore-Storefront/pkg/logging"
)

func TestRunCancelsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	var order []string

	err := Run(context.Background(), logging.Discard(), time.Second,
		[]Runner{
			func(ctx context.Context) error { return boom },
			func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
		},
		func(ctx context.Context) error { order = append(order, "first"); return nil },
		func(ctx context.Context) error { order = append(order, "second"); return nil },
	)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestRunStopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, logging.Discard(), time.Second, []Runner{
		func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
	})
	assert.NoError(t, err)
}
