package mail

import (
	"context"
	"log/slog"

	"github.com/dmehra2102/Bookstore-Storefront/internal/notifier/application"
)

// Log writes mails to the logger instead of sending them. Used for local runs.
type Log struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *Log { return &Log{log: log} }

func (l *Log) Send(ctx context.Context, m application.Message) error {
	l.log.InfoContext(ctx, "mail", "to", m.To, "subject", m.Subject, "body", m.Text)
	return nil
}
