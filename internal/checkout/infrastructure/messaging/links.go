package messaging

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/application"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
)

var ErrNoRecipient = errors.New("merchant recipient is not configured")

// WhatsApp builds a wa.me chat link prefilled with the order summary.
type WhatsApp struct {
	Number string
}

func (w WhatsApp) Send(_ context.Context, s domain.Summary) (application.Outcome, error) {
	n := digits(w.Number)
	if n == "" {
		return application.Outcome{}, ErrNoRecipient
	}
	return application.Outcome{URL: "https://wa.me/" + n + "?text=" + escape(s.Text("\n"))}, nil
}

// Email builds a mailto link. Line breaks in the body become %0D%0A.
type Email struct {
	Address string
	Subject string
}

func (e Email) Send(_ context.Context, s domain.Summary) (application.Outcome, error) {
	if strings.TrimSpace(e.Address) == "" {
		return application.Outcome{}, ErrNoRecipient
	}
	link := "mailto:" + e.Address + "?subject=" + escape(e.Subject) + "&body=" + escape(s.Text("\r\n"))
	return application.Outcome{URL: link}, nil
}

// escape percent-encodes v for a query value, spaces as %20.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
