package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notify"
	"github.com/dmehra2102/Bookstore-Storefront/internal/rating/domain"
)

var (
	ErrLoginRequired = errors.New("login required to rate")
	ErrInvalidRating = domain.ErrOutOfRange
)

type Service struct {
	log    *slog.Logger
	repo   Repository
	notice notify.Notifier
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(log *slog.Logger, repo Repository, notice notify.Notifier, opts ...Option) *Service {
	s := &Service{log: log, repo: repo, notice: notice, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit records the principal's rating for bookID. Refused ratings never
// reach the repository.
func (s *Service) Submit(ctx context.Context, p auth.Principal, bookID string, value int) (domain.Summary, error) {
	if !p.Authenticated() {
		s.notice.Notify(ctx, notify.Warning(notify.CodeLoginRequired, "please log in to rate this book"))
		return domain.Summary{}, ErrLoginRequired
	}
	r, err := domain.NewRating(bookID, p.UserID, value, s.now())
	if err != nil {
		s.notice.Notify(ctx, notify.Warning(notify.CodeInvalidRating, err.Error()))
		return domain.Summary{}, err
	}

	summary, err := s.repo.Upsert(ctx, r)
	if err != nil {
		s.log.Error("rating upsert failed", "book_id", bookID, "user_id", p.UserID, "err", err)
		err = fmt.Errorf("submit rating: %w", err)
		s.notice.Notify(ctx, notify.Error(err))
		return domain.Summary{}, err
	}
	s.notice.Notify(ctx, notify.Info(notify.CodeRated, "thanks for rating"))
	return summary, nil
}

func (s *Service) Summary(ctx context.Context, bookID string) (domain.Summary, error) {
	summary, err := s.repo.Summary(ctx, bookID)
	if err != nil {
		err = fmt.Errorf("rating summary: %w", err)
		s.notice.Notify(ctx, notify.Error(err))
		return domain.Summary{}, err
	}
	return summary, nil
}

// UserRating returns nil when the user has not rated the book.
func (s *Service) UserRating(ctx context.Context, bookID, userID string) (*int, error) {
	if userID == "" {
		return nil, nil
	}
	v, ok, err := s.repo.UserRating(ctx, bookID, userID)
	if err != nil {
		err = fmt.Errorf("user rating: %w", err)
		s.notice.Notify(ctx, notify.Error(err))
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &v, nil
}
