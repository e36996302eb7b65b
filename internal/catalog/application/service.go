package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
)

// Service keeps the last catalog fetched from the provider. Carts resolve book
// ids against it, so a failed refresh keeps serving the previous snapshot.
type Service struct {
	log      *slog.Logger
	provider Provider
	current  atomic.Pointer[domain.Snapshot]
}

func NewService(log *slog.Logger, provider Provider) *Service {
	s := &Service{log: log, provider: provider}
	s.current.Store(domain.NewSnapshot(nil))
	return s
}

func (s *Service) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	books, err := s.provider.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	snap := domain.NewSnapshot(books)
	s.current.Store(snap)
	s.log.Debug("catalog refreshed", "books", snap.Len())
	return snap, nil
}

// ListBooks fetches the catalog and makes it current.
func (s *Service) ListBooks(ctx context.Context) ([]domain.Book, error) {
	snap, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Books(), nil
}

func (s *Service) Book(id string) (domain.Book, bool) {
	return s.current.Load().Book(id)
}

func (s *Service) Snapshot() *domain.Snapshot {
	return s.current.Load()
}

// RunRefresh refreshes the catalog every interval until ctx is done.
func (s *Service) RunRefresh(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.log.Error("catalog refresh failed", "err", err)
			}
		}
	}
}
