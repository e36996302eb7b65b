package application

import (
	"context"

	"github.com/dmehra2102/Bookstore-Storefront/internal/rating/domain"
)

type Repository interface {
	// Upsert stores r, replacing any earlier rating by the same user for the
	// same book, and returns the summary recomputed over all ratings.
	Upsert(ctx context.Context, r domain.Rating) (domain.Summary, error)
	Summary(ctx context.Context, bookID string) (domain.Summary, error)
	// UserRating reports ok=false when the user never rated the book.
	UserRating(ctx context.Context, bookID, userID string) (value int, ok bool, err error)
}
