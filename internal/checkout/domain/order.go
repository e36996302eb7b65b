package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cart "github.com/dmehra2102/Bookstore-Storefront/internal/cart/domain"
)

type Channel string

const (
	ChannelOrder    Channel = "order"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

type OrderStatus string

const StatusPending OrderStatus = "pending"

type Order struct {
	ID        uuid.UUID
	UserID    string
	Contact   Contact
	Channel   Channel
	Items     []OrderItem
	Total     decimal.Decimal
	Status    OrderStatus
	CreatedAt time.Time
}

// OrderItem keeps the price the book had when the order was placed.
type OrderItem struct {
	BookID      string          `json:"book_id"`
	Title       string          `json:"title"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder snapshots the priced cart lines. Total is the sum of the item
// subtotals.
func NewOrder(userID string, contact Contact, channel Channel, lines []cart.PricedLine, at time.Time) Order {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			BookID:      l.Book.ID,
			Title:       l.Book.Title,
			Quantity:    l.Quantity,
			PriceAtTime: l.Book.Price,
		})
	}
	o := Order{
		ID:        uuid.New(),
		UserID:    userID,
		Contact:   contact,
		Channel:   channel,
		Items:     items,
		Status:    StatusPending,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
	}
	o.Total = o.ItemsTotal()
	return o
}

func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
