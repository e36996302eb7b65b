package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	cart "github.com/dmehra2102/Bookstore-Storefront/internal/cart/domain"
)

// Summary is the plain-text rendering of a cart handed to a messaging channel.
type Summary struct {
	Lines []string
	Total decimal.Decimal
}

func NewSummary(lines []cart.PricedLine, total decimal.Decimal) Summary {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, fmt.Sprintf("%s (%dx) - $%s", l.Book.Title, l.Quantity, l.Subtotal.StringFixed(2)))
	}
	return Summary{Lines: out, Total: total}
}

// Text joins the item lines and the trailing total line with sep.
func (s Summary) Text(sep string) string {
	all := append(append([]string{}, s.Lines...), "Total: $"+s.Total.StringFixed(2))
	return strings.Join(all, sep)
}
