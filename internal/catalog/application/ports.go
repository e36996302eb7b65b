package application

import (
	"context"

	"github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
)

// Provider is the read-only source of sellable books.
type Provider interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
}
