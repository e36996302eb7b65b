package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/Bookstore-Storefront/internal/comment/domain"
	"github.com/dmehra2102/Bookstore-Storefront/internal/platform/postgres"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Append(ctx context.Context, c domain.Comment) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO book_comments (id, book_id, user_id, comment, created_at) VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.BookID, c.UserID, c.Text, c.CreatedAt)
	if err != nil {
		r.log.Error("comment insert", "book_id", c.BookID, "err", postgres.Describe(err))
	}
	return err
}

func (r *Repository) List(ctx context.Context, bookID string) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, book_id, user_id, comment, created_at FROM book_comments
		WHERE book_id=$1 ORDER BY created_at, seq`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.BookID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}
