package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AggregateOrder   = "order"
	EventOrderPlaced = "OrderPlaced"
)

// OrderPlaced is published once an order row is committed.
type OrderPlaced struct {
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	Channel   Channel         `json:"channel"`
	Total     decimal.Decimal `json:"total_amount"`
	Items     []OrderItem     `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewOrderPlaced(o Order) OrderPlaced {
	return OrderPlaced{
		OrderID:   o.ID.String(),
		UserID:    o.UserID,
		Email:     o.Contact.Email,
		Phone:     o.Contact.Phone,
		Channel:   o.Channel,
		Total:     o.Total,
		Items:     o.Items,
		CreatedAt: o.CreatedAt,
	}
}
