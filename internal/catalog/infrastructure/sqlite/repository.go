package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
)

type Repository struct {
	log *slog.Logger
	db  *sql.DB
}

func NewRepository(log *slog.Logger, db *sql.DB) *Repository {
	return &Repository{log: log, db: db}
}

func (r *Repository) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, author, price, COALESCE(category, ''), COALESCE(description, ''),
		       language, COALESCE(image_url, ''), stock_count
		FROM books ORDER BY rowid`)
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

// Upsert stores books, replacing rows with the same id. Used to seed local
// databases; the storefront itself never writes the catalog.
func (r *Repository) Upsert(ctx context.Context, books ...domain.Book) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books(id, title, author, price, category, description, language, image_url, stock_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title=excluded.title, author=excluded.author, price=excluded.price, category=excluded.category,
		  description=excluded.description, language=excluded.language, image_url=excluded.image_url,
		  stock_count=excluded.stock_count`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range books {
		lang := b.Language
		if lang == "" {
			lang = "ar"
		}
		if _, err := stmt.ExecContext(ctx, b.ID, b.Title, b.Author, b.Price.StringFixed(2),
			nullable(b.Category), nullable(b.Description), lang, nullable(b.ImageURL), b.StockCount); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
