package application

import (
	"context"

	"github.com/dmehra2102/Bookstore-Storefront/internal/comment/domain"
)

type Repository interface {
	Append(ctx context.Context, c domain.Comment) error
	// List returns the comments of a book oldest first, ties in insertion order.
	List(ctx context.Context, bookID string) ([]domain.Comment, error)
}
