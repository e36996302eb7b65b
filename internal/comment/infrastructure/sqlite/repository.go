package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/Bookstore-Storefront/internal/comment/domain"
)

type Repository struct {
	log *slog.Logger
	db  *sql.DB
}

func NewRepository(log *slog.Logger, db *sql.DB) *Repository {
	return &Repository{log: log, db: db}
}

func (r *Repository) Append(ctx context.Context, c domain.Comment) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO book_comments(id, book_id, user_id, comment, created_unix_nano) VALUES (?, ?, ?, ?, ?)`,
		c.ID.String(), c.BookID, c.UserID, c.Text, c.CreatedAt.UnixNano())
	if err != nil {
		r.log.Error("comment insert", "book_id", c.BookID, "err", err)
	}
	return err
}

func (r *Repository) List(ctx context.Context, bookID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, book_id, user_id, comment, created_unix_nano FROM book_comments
		WHERE book_id=? ORDER BY created_unix_nano, seq`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var id string
		var nanos int64
		if err := rows.Scan(&id, &c.BookID, &c.UserID, &c.Text, &nanos); err != nil {
			return nil, err
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		c.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}
