package sqlite

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
)

var demoBooks = []domain.Book{
	{ID: "1", Title: "The Prophet", Author: "Kahlil Gibran", Price: decimal.RequireFromString("29.99"), Category: "Poetry", Description: "Twenty-six prose poetry fables.", Language: "en", StockCount: 12},
	{ID: "2", Title: "Season of Migration to the North", Author: "Tayeb Salih", Price: decimal.RequireFromString("34.99"), Category: "Novel", Description: "A classic of post-colonial Arabic literature.", Language: "ar", StockCount: 8},
	{ID: "3", Title: "The Stranger", Author: "Albert Camus", Price: decimal.RequireFromString("24.50"), Category: "Novel", Description: "An absurdist novel.", Language: "fr", StockCount: 5},
	{ID: "4", Title: "Men in the Sun", Author: "Ghassan Kanafani", Price: decimal.RequireFromString("19.99"), Category: "Novella", Language: "ar", StockCount: 10},
}

// SeedDemo loads the demo catalog into an empty database. It reports whether
// anything was written.
func (r *Repository) SeedDemo(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, r.Upsert(ctx, demoBooks...)
}
