package application

import (
	"context"

	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/outbox"
)

// OrderRepository writes the order, its items and the outbox record as one
// unit. Either all of them are stored or none is.
type OrderRepository interface {
	SaveWithOutbox(ctx context.Context, o domain.Order, ev outbox.Record) error
}

// Outcome is what a fulfillment channel hands back to the caller.
type Outcome struct {
	OrderID string `json:"order_id,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Channel hands an order summary to an outside party. Implementations do not
// observe whether the party acted on it.
type Channel interface {
	Send(ctx context.Context, s domain.Summary) (Outcome, error)
}
