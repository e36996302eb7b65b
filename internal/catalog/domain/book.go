package domain

import "github.com/shopspring/decimal"

// Book is owned by the catalog and never mutated once fetched.
type Book struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Language    string          `json:"language,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	StockCount  int             `json:"stock_count"`
}

// Lookup resolves a book id against the catalog the caller currently sees.
type Lookup interface {
	Book(id string) (Book, bool)
}

// Snapshot is one fetched copy of the catalog, kept in listing order.
type Snapshot struct {
	books []Book
	byID  map[string]int
}

func NewSnapshot(books []Book) *Snapshot {
	s := &Snapshot{
		books: make([]Book, 0, len(books)),
		byID:  make(map[string]int, len(books)),
	}
	for _, b := range books {
		if _, dup := s.byID[b.ID]; dup {
			continue
		}
		s.byID[b.ID] = len(s.books)
		s.books = append(s.books, b)
	}
	return s
}

func (s *Snapshot) Book(id string) (Book, bool) {
	if s == nil {
		return Book{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Book{}, false
	}
	return s.books[i], true
}

func (s *Snapshot) Books() []Book {
	if s == nil {
		return nil
	}
	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.books)
}
