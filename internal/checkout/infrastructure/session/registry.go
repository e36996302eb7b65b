package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	catalog "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
)

// Registry keeps the most recently used browsing sessions in memory. The least
// recently used session is dropped, cart included, once capacity is reached.
type Registry struct {
	log   *slog.Logger
	books catalog.Lookup
	now   func() time.Time

	mu    sync.Mutex
	cache *lru.Cache[string, *domain.Session]
}

func NewRegistry(log *slog.Logger, books catalog.Lookup, capacity int) (*Registry, error) {
	r := &Registry{log: log, books: books, now: time.Now}
	cache, err := lru.NewWithEvict(capacity, r.evicted)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

// evicted runs inside cache.Add with r.mu held.
func (r *Registry) evicted(id string, s *domain.Session) {
	s.Lock()
	idle := r.now().Sub(s.LastSeen()).Round(time.Second).String()
	lines := s.Cart().Len()
	s.Unlock()
	if lines > 0 {
		r.log.Info("session evicted with items in cart", "session", id, "idle", idle, "lines", lines)
		return
	}
	r.log.Debug("session evicted", "session", id, "idle", idle)
}

// Obtain returns the session for id, creating a fresh one under a new id when
// id is empty or unknown.
func (r *Registry) Obtain(id string) (s *domain.Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if s, ok := r.cache.Get(id); ok {
			s.Lock()
			s.Touch(r.now())
			s.Unlock()
			return s, false
		}
	}
	s = domain.NewSession(uuid.NewString(), r.books)
	s.Touch(r.now())
	r.cache.Add(s.ID, s)
	return s, true
}

func (r *Registry) Len() int { return r.cache.Len() }
