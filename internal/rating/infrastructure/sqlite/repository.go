package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/dmehra2102/Bookstore-Storefront/internal/rating/domain"
)

type Repository struct {
	log *slog.Logger
	db  *sql.DB
}

func NewRepository(log *slog.Logger, db *sql.DB) *Repository {
	return &Repository{log: log, db: db}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) Upsert(ctx context.Context, rt domain.Rating) (domain.Summary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Summary{}, err
	}
	defer func() { _ = tx.Rollback() }()

	at := rt.UpdatedAt.Unix()
	_, err = tx.ExecContext(ctx, `INSERT INTO book_ratings(book_id, user_id, rating, created_unix, updated_unix)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(book_id, user_id) DO UPDATE SET rating=excluded.rating, updated_unix=excluded.updated_unix`,
		rt.BookID, rt.UserID, rt.Value, at, at)
	if err != nil {
		r.log.Error("rating upsert", "book_id", rt.BookID, "err", err)
		return domain.Summary{}, err
	}

	summary, err := summarize(ctx, tx, rt.BookID)
	if err != nil {
		return domain.Summary{}, err
	}
	return summary, tx.Commit()
}

func (r *Repository) Summary(ctx context.Context, bookID string) (domain.Summary, error) {
	return summarize(ctx, r.db, bookID)
}

func (r *Repository) UserRating(ctx context.Context, bookID, userID string) (int, bool, error) {
	var v int
	err := r.db.QueryRowContext(ctx, `SELECT rating FROM book_ratings WHERE book_id=? AND user_id=?`, bookID, userID).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func summarize(ctx context.Context, q querier, bookID string) (domain.Summary, error) {
	var avg sql.NullFloat64
	var count int
	err := q.QueryRowContext(ctx, `SELECT AVG(rating), COUNT(*) FROM book_ratings WHERE book_id=?`, bookID).
		Scan(&avg, &count)
	if err != nil {
		return domain.Summary{}, err
	}
	var p *float64
	if avg.Valid {
		p = &avg.Float64
	}
	return domain.NewSummary(bookID, p, count), nil
}
