package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/Bookstore-Storefront/internal/platform/postgres"
	"github.com/dmehra2102/Bookstore-Storefront/internal/rating/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *Repository) Upsert(ctx context.Context, rt domain.Rating) (domain.Summary, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Summary{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO book_ratings (book_id, user_id, rating, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$4)
		ON CONFLICT (book_id, user_id) DO UPDATE SET rating=EXCLUDED.rating, updated_at=EXCLUDED.updated_at`,
		rt.BookID, rt.UserID, rt.Value, rt.UpdatedAt)
	if err != nil {
		r.log.Error("rating upsert", "book_id", rt.BookID, "err", postgres.Describe(err))
		return domain.Summary{}, err
	}

	summary, err := summarize(ctx, tx, rt.BookID)
	if err != nil {
		return domain.Summary{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return domain.Summary{}, err
	}
	return summary, nil
}

func (r *Repository) Summary(ctx context.Context, bookID string) (domain.Summary, error) {
	return summarize(ctx, r.pool, bookID)
}

func (r *Repository) UserRating(ctx context.Context, bookID, userID string) (int, bool, error) {
	var v int
	err := r.pool.QueryRow(ctx, `SELECT rating FROM book_ratings WHERE book_id=$1 AND user_id=$2`, bookID, userID).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func summarize(ctx context.Context, q querier, bookID string) (domain.Summary, error) {
	var avg *float64
	var count int
	err := q.QueryRow(ctx, `SELECT AVG(rating)::float8, COUNT(*) FROM book_ratings WHERE book_id=$1`, bookID).
		Scan(&avg, &count)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.NewSummary(bookID, avg, count), nil
}
