package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
	platform "github.com/dmehra2102/Bookstore-Storefront/internal/platform/sqlite"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/logging"
)

func TestUpsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(logging.Discard(), platform.OpenTest(t))

	require.NoError(t, repo.Upsert(ctx,
		domain.Book{ID: "1", Title: "The Prophet", Author: "Kahlil Gibran", Price: decimal.RequireFromString("29.99"), Category: "Poetry"},
		domain.Book{ID: "2", Title: "Emma", Author: "Jane Austen", Price: decimal.RequireFromString("34.99"), Language: "en"},
	))
	// price change replaces the row
	require.NoError(t, repo.Upsert(ctx,
		domain.Book{ID: "2", Title: "Emma", Author: "Jane Austen", Price: decimal.RequireFromString("30"), Language: "en"},
	))

	books, err := repo.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "1", books[0].ID)
	assert.Equal(t, "Poetry", books[0].Category)
	assert.Equal(t, "ar", books[0].Language)
	assert.True(t, decimal.RequireFromString("29.99").Equal(books[0].Price))
	assert.True(t, decimal.NewFromInt(30).Equal(books[1].Price))
}

func TestSeedDemoOnlyFillsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(logging.Discard(), platform.OpenTest(t))

	seeded, err := repo.SeedDemo(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repo.SeedDemo(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	books, err := repo.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 4)
	assert.Equal(t, "The Prophet", books[0].Title)
}
