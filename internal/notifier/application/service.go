package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	checkout "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
)

var ErrNoMerchant = errors.New("merchant mailbox is not configured")

var orderMail = template.Must(template.New("order").Parse(`<h1>New Order Received</h1>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Channel:</strong> {{.Channel}}</p>
<p><strong>Customer Email:</strong> {{.Email}}</p>
<p><strong>Phone Number:</strong> {{.Phone}}</p>
<p><strong>Total Amount:</strong> ${{.Total.StringFixed 2}}</p>
<h2>Items:</h2>
<pre>{{.Details}}</pre>
`))

// Service tells the merchant about every placed order.
type Service struct {
	log      *slog.Logger
	mailer   Mailer
	merchant string
}

func NewService(log *slog.Logger, mailer Mailer, merchant string) *Service {
	return &Service{log: log, mailer: mailer, merchant: merchant}
}

func (s *Service) OrderPlaced(ctx context.Context, ev checkout.OrderPlaced) error {
	if s.merchant == "" {
		return ErrNoMerchant
	}
	msg, err := Compose(s.merchant, ev)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("mail order %s: %w", ev.OrderID, err)
	}
	s.log.Info("merchant notified", "order_id", ev.OrderID, "to", s.merchant)
	return nil
}

// Compose renders the merchant mail for ev.
func Compose(to string, ev checkout.OrderPlaced) (Message, error) {
	lines := make([]string, 0, len(ev.Items))
	for _, it := range ev.Items {
		lines = append(lines, fmt.Sprintf("%s (%dx) - $%s", it.Title, it.Quantity, it.Subtotal().StringFixed(2)))
	}
	details := strings.Join(lines, "\n")

	var buf bytes.Buffer
	err := orderMail.Execute(&buf, struct {
		checkout.OrderPlaced
		Details string
	}{ev, details})
	if err != nil {
		return Message{}, err
	}

	text := fmt.Sprintf("New order %s\nCustomer: %s %s\nTotal: $%s\n\n%s",
		ev.OrderID, ev.Email, ev.Phone, ev.Total.StringFixed(2), details)
	return Message{
		To:      to,
		Subject: "New Order #" + ev.OrderID,
		HTML:    buf.String(),
		Text:    text,
	}, nil
}
