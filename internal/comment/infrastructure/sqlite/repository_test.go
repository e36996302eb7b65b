package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	"github.com/dmehra2102/Bookstore-Storefront/internal/comment/application"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notify"
	platform "github.com/dmehra2102/Bookstore-Storefront/internal/platform/sqlite"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/logging"
)

func TestListOrdersByCreationTimeNotCallOrder(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{base.Add(1 * time.Second), base.Add(3 * time.Second), base.Add(2 * time.Second)}
	clock := func() time.Time {
		now := stamps[0]
		stamps = stamps[1:]
		return now
	}

	repo := NewRepository(logging.Discard(), platform.OpenTest(t))
	svc := application.NewService(logging.Discard(), repo, &notify.Recorder{}, application.WithClock(clock))
	ctx := context.Background()
	user := auth.Principal{UserID: "u1"}

	for _, text := range []string{"A", "C", "B"} {
		_, err := svc.Add(ctx, user, "b1", text)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].Text, got[1].Text, got[2].Text})
	assert.True(t, got[0].CreatedAt.Before(got[1].CreatedAt))

	raw, err := repo.List(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "B", raw[1].Text)
}

func TestListIsStableOnEqualTimestamps(t *testing.T) {
	repo := NewRepository(logging.Discard(), platform.OpenTest(t))
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := application.NewService(logging.Discard(), repo, &notify.Recorder{},
		application.WithClock(func() time.Time { return at }))

	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.Add(ctx, auth.Principal{UserID: "u1"}, "b1", text)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{got[0].Text, got[1].Text, got[2].Text})
	assert.Equal(t, at, got[0].CreatedAt)
}
