package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, author, price::text, COALESCE(category, ''), COALESCE(description, ''),
		       language, COALESCE(image_url, ''), stock_count
		FROM books
		ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		var price string
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &price, &b.Category, &b.Description, &b.Language, &b.ImageURL, &b.StockCount); err != nil {
			return nil, err
		}
		if b.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
