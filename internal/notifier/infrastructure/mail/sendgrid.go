package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/dmehra2102/Bookstore-Storefront/internal/notifier/application"
)

type Sendgrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendgrid(apiKey, from string) *Sendgrid {
	return &Sendgrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("Bookstore", from),
	}
}

func (s *Sendgrid) Send(ctx context.Context, m application.Message) error {
	msg := sgmail.NewSingleEmail(s.from, m.Subject, sgmail.NewEmail("", m.To), m.Text, m.HTML)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
