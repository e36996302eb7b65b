package domain

import (
	"github.com/shopspring/decimal"

	catalog "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
)

// Line is one book in the cart. Quantity is always at least 1.
type Line struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

// PricedLine is a line joined with the book it refers to.
type PricedLine struct {
	Book     catalog.Book
	Quantity int
	Subtotal decimal.Decimal
}

// Cart holds the lines of one browsing session. It is not safe for concurrent
// use; a session has a single actor. All mutation goes through AddItem,
// UpdateQuantity, RemoveItem and Clear.
type Cart struct {
	books catalog.Lookup
	order []string
	lines map[string]int
}

func New(books catalog.Lookup) *Cart {
	return &Cart{books: books, lines: make(map[string]int)}
}

// AddItem adds one copy of the book. Unknown ids are ignored.
func (c *Cart) AddItem(bookID string) {
	if _, ok := c.books.Book(bookID); !ok {
		return
	}
	if q, ok := c.lines[bookID]; ok {
		c.lines[bookID] = q + 1
		return
	}
	c.lines[bookID] = 1
	c.order = append(c.order, bookID)
}

// UpdateQuantity shifts the quantity of an existing line by delta, never below 1.
func (c *Cart) UpdateQuantity(bookID string, delta int) {
	q, ok := c.lines[bookID]
	if !ok {
		return
	}
	c.lines[bookID] = max(1, q+delta)
}

func (c *Cart) RemoveItem(bookID string) {
	if _, ok := c.lines[bookID]; !ok {
		return
	}
	delete(c.lines, bookID)
	for i, id := range c.order {
		if id == bookID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.order = nil
	c.lines = make(map[string]int)
}

// Total is recomputed from the current lines and current catalog prices on
// every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, pl := range c.Priced() {
		total = total.Add(pl.Subtotal)
	}
	return total
}

// Lines returns the lines in the order they were first added.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Line{BookID: id, Quantity: c.lines[id]})
	}
	return out
}

// Priced joins every line with its book. Lines whose book is gone from the
// catalog are skipped.
func (c *Cart) Priced() []PricedLine {
	out := make([]PricedLine, 0, len(c.order))
	for _, id := range c.order {
		b, ok := c.books.Book(id)
		if !ok {
			continue
		}
		q := c.lines[id]
		out = append(out, PricedLine{
			Book:     b,
			Quantity: q,
			Subtotal: b.Price.Mul(decimal.NewFromInt(int64(q))),
		})
	}
	return out
}

func (c *Cart) Quantity(bookID string) int { return c.lines[bookID] }

func (c *Cart) Len() int { return len(c.order) }

func (c *Cart) IsEmpty() bool { return len(c.order) == 0 }
