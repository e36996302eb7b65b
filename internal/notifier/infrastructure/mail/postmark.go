package mail

import (
	"context"
	"fmt"

	"github.com/keighl/postmark"

	"github.com/dmehra2102/Bookstore-Storefront/internal/notifier/application"
)

type Postmark struct {
	client *postmark.Client
	from   string
}

func NewPostmark(serverToken, from string) *Postmark {
	return &Postmark{client: postmark.NewClient(serverToken, ""), from: from}
}

func (p *Postmark) Send(_ context.Context, m application.Message) error {
	resp, err := p.client.SendEmail(postmark.Email{
		From:     p.from,
		To:       m.To,
		Subject:  m.Subject,
		HtmlBody: m.HTML,
		TextBody: m.Text,
		Tag:      "order",
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("postmark: %d %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
