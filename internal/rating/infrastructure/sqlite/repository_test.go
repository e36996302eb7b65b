package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platform "github.com/dmehra2102/Bookstore-Storefront/internal/platform/sqlite"
	"github.com/dmehra2102/Bookstore-Storefront/internal/rating/domain"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/logging"
)

func rate(t *testing.T, repo *Repository, book, user string, v int) domain.Summary {
	t.Helper()
	s, err := repo.Upsert(context.Background(), domain.Rating{BookID: book, UserID: user, Value: v, UpdatedAt: time.Now()})
	require.NoError(t, err)
	return s
}

func TestUpsertOverwritesSameUser(t *testing.T) {
	db := platform.OpenTest(t)
	repo := NewRepository(logging.Discard(), db)

	rate(t, repo, "b1", "other", 3)
	rate(t, repo, "b1", "u1", 4)
	rate(t, repo, "b1", "u1", 2)
	s := rate(t, repo, "b1", "u1", 5)

	assert.Equal(t, 2, s.Count)
	require.NotNil(t, s.Average)
	assert.InDelta(t, 4.0, *s.Average, 1e-9)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM book_ratings WHERE book_id='b1' AND user_id='u1'`).Scan(&rows))
	assert.Equal(t, 1, rows)

	v, ok, err := repo.UserRating(context.Background(), "b1", "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestSummaryOverDistinctUsers(t *testing.T) {
	repo := NewRepository(logging.Discard(), platform.OpenTest(t))
	rate(t, repo, "b1", "a", 4)
	rate(t, repo, "b1", "b", 5)
	rate(t, repo, "b1", "c", 3)
	rate(t, repo, "b2", "a", 1)

	s, err := repo.Summary(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	require.NotNil(t, s.Average)
	assert.InDelta(t, 4.0, *s.Average, 1e-9)
}

func TestSummaryWithoutRatings(t *testing.T) {
	repo := NewRepository(logging.Discard(), platform.OpenTest(t))

	s, err := repo.Summary(context.Background(), "nobody-rated-me")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)
	assert.Nil(t, s.Average)

	_, ok, err := repo.UserRating(context.Background(), "nobody-rated-me", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentUpsertsConverge(t *testing.T) {
	repo := NewRepository(logging.Discard(), platform.OpenTest(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Upsert(ctx, domain.Rating{BookID: "b1", UserID: "same", Value: i%5 + 1, UpdatedAt: time.Now()})
			assert.NoError(t, err)
			_, err = repo.Upsert(ctx, domain.Rating{BookID: "b1", UserID: fmt.Sprintf("u%d", i), Value: 5, UpdatedAt: time.Now()})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	last := rate(t, repo, "b1", "same", 1)
	assert.Equal(t, 11, last.Count)
	require.NotNil(t, last.Average)
	assert.InDelta(t, 51.0/11.0, *last.Average, 1e-9)
}
