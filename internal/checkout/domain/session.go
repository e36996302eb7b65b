package domain

import (
	"sync"
	"time"

	cart "github.com/dmehra2102/Bookstore-Storefront/internal/cart/domain"
	catalog "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
)

type State int

const (
	Browsing State = iota
	CollectingContact
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case CollectingContact:
		return "collecting_contact"
	}
	return "unknown"
}

// Session owns one visitor's cart and checkout state. Every transition and
// every cart edit advances the generation, so a result computed against an
// older generation can be recognised as stale.
type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	gen      uint64
	cart     *cart.Cart
	lastSeen time.Time
}

func NewSession(id string, books catalog.Lookup) *Session {
	return &Session{ID: id, cart: cart.New(books), lastSeen: time.Now()}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// The accessors below expect the caller to hold the lock.

func (s *Session) State() State        { return s.state }
func (s *Session) Generation() uint64  { return s.gen }
func (s *Session) Cart() *cart.Cart    { return s.cart }
func (s *Session) LastSeen() time.Time { return s.lastSeen }

func (s *Session) Touch(at time.Time) { s.lastSeen = at }

func (s *Session) Begin() {
	s.state = CollectingContact
	s.gen++
}

func (s *Session) Reset() {
	s.state = Browsing
	s.gen++
}

// Edit applies fn to the cart under the session lock.
func (s *Session) Edit(fn func(c *cart.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart)
	s.gen++
}
