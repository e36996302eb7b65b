package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	"github.com/dmehra2102/Bookstore-Storefront/internal/comment/domain"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notify"
)

var (
	ErrLoginRequired = errors.New("login required to comment")
	ErrEmptyComment  = domain.ErrEmpty
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

// Add appends a comment by the principal. Blank text is dropped without a
// notice.
func (s *Service) Add(ctx context.Context, p auth.Principal, bookID, text string) (domain.Comment, error) {
	if !p.Authenticated() {
		s.notice.Notify(ctx, notify.Warning(notify.CodeLoginRequired, "please log in to comment"))
		return domain.Comment{}, ErrLoginRequired
	}
	c, err := domain.NewComment(bookID, p.UserID, text, s.now())
	if err != nil {
		return domain.Comment{}, err
	}
	if err := s.repo.Append(ctx, c); err != nil {
		s.log.Error("comment append failed", "book_id", bookID, "err", err)
		err = fmt.Errorf("add comment: %w", err)
		s.notice.Notify(ctx, notify.Error(err))
		return domain.Comment{}, err
	}
	s.notice.Notify(ctx, notify.Info(notify.CodeCommented, "comment posted"))
	return c, nil
}

func (s *Service) List(ctx context.Context, bookID string) ([]domain.Comment, error) {
	cs, err := s.repo.List(ctx, bookID)
	if err != nil {
		err = fmt.Errorf("list comments: %w", err)
		s.notice.Notify(ctx, notify.Error(err))
		return nil, err
	}
	domain.SortChronological(cs)
	return cs, nil
}
