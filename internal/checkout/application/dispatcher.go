package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notify"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/outbox"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/tracing"
)

var (
	ErrLoginRequired = errors.New("login required to check out")
	ErrCartEmpty     = errors.New("cart is empty")
	ErrPhoneRequired = domain.ErrPhoneRequired
	ErrInvalidState  = errors.New("checkout is not open")
	ErrTotalMismatch = errors.New("order total does not match cart total")
	// ErrStale is returned when the session moved on while the dispatch was
	// in flight. The result was not applied.
	ErrStale = errors.New("checkout result is stale")
)

type Dispatcher struct {
	log      *slog.Logger
	orders   OrderRepository
	whatsapp Channel
	email    Channel
	notice   notify.Notifier
	now      func() time.Time

	requirePhone    bool
	recordMessaging bool
}

type Option func(*Dispatcher)

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// RequirePhone makes a phone number mandatory before any dispatch.
func RequirePhone(v bool) Option {
	return func(d *Dispatcher) { d.requirePhone = v }
}

// RecordMessagingOrders controls whether WhatsApp and email dispatches also
// store an order once the summary link is built.
func RecordMessagingOrders(v bool) Option {
	return func(d *Dispatcher) { d.recordMessaging = v }
}

func NewDispatcher(log *slog.Logger, orders OrderRepository, whatsapp, email Channel, notice notify.Notifier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:             log,
		orders:          orders,
		whatsapp:        whatsapp,
		email:           email,
		notice:          notice,
		now:             time.Now,
		recordMessaging: true,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dispatcher) RequiresPhone() bool { return d.requirePhone }

// StartCheckout moves the session into CollectingContact.
func (d *Dispatcher) StartCheckout(ctx context.Context, s *domain.Session, p auth.Principal) error {
	s.Lock()
	defer s.Unlock()

	if !p.Authenticated() {
		d.notice.Notify(ctx, notify.Warning(notify.CodeLoginRequired, "please log in to check out"))
		return ErrLoginRequired
	}
	if s.Cart().IsEmpty() {
		d.notice.Notify(ctx, notify.Warning(notify.CodeCartEmpty, "your cart is empty"))
		return ErrCartEmpty
	}
	s.Begin()
	return nil
}

// Cancel returns to Browsing and leaves the cart alone.
func (d *Dispatcher) Cancel(s *domain.Session) {
	s.Lock()
	defer s.Unlock()
	s.Reset()
}

func (d *Dispatcher) PersistAndCheckout(ctx context.Context, s *domain.Session, p auth.Principal, c domain.Contact) (Outcome, error) {
	return d.dispatch(ctx, s, p, c, domain.ChannelOrder, nil, true)
}

func (d *Dispatcher) DispatchWhatsApp(ctx context.Context, s *domain.Session, p auth.Principal, c domain.Contact) (Outcome, error) {
	return d.dispatch(ctx, s, p, c, domain.ChannelWhatsApp, d.whatsapp, d.recordMessaging)
}

func (d *Dispatcher) DispatchEmail(ctx context.Context, s *domain.Session, p auth.Principal, c domain.Contact) (Outcome, error) {
	return d.dispatch(ctx, s, p, c, domain.ChannelEmail, d.email, d.recordMessaging)
}

// dispatch snapshots the cart under the session lock, does the slow work
// without it, then applies the result only if the session generation did not
// move in between.
func (d *Dispatcher) dispatch(ctx context.Context, s *domain.Session, p auth.Principal, c domain.Contact, ch domain.Channel, send Channel, persist bool) (Outcome, error) {
	s.Lock()
	if err := d.precheck(ctx, s, p, c); err != nil {
		s.Unlock()
		return Outcome{}, err
	}
	priced := s.Cart().Priced()
	if len(priced) == 0 {
		// every line points at a book the catalog no longer has
		s.Unlock()
		d.notice.Notify(ctx, notify.Warning(notify.CodeCartEmpty, "your cart is empty"))
		return Outcome{}, ErrCartEmpty
	}
	total := s.Cart().Total()
	gen := s.Generation()
	s.Unlock()

	order := domain.NewOrder(p.UserID, c, ch, priced, d.now())
	if !order.Total.Equal(total) {
		return Outcome{}, d.fail(ctx, s, gen, ErrTotalMismatch)
	}

	// The link is built before anything is written; a failed hand-off
	// leaves no order behind.
	var out Outcome
	if send != nil {
		sent, err := send.Send(ctx, domain.NewSummary(priced, total))
		if err != nil {
			return Outcome{}, d.fail(ctx, s, gen, fmt.Errorf("%s dispatch: %w", ch, err))
		}
		out.URL = sent.URL
	}
	if persist {
		if err := d.save(ctx, order); err != nil {
			return Outcome{}, d.fail(ctx, s, gen, fmt.Errorf("place order: %w", err))
		}
		out.OrderID = order.ID.String()
	}

	s.Lock()
	defer s.Unlock()
	if s.Generation() != gen {
		d.log.Warn("checkout result discarded", "session", s.ID, "channel", ch, "order_id", out.OrderID)
		return out, ErrStale
	}
	s.Cart().Clear()
	s.Reset()

	if ch == domain.ChannelOrder {
		d.notice.Notify(ctx, notify.Info(notify.CodeOrderPlaced, "order placed, we will contact you soon"))
	} else {
		d.notice.Notify(ctx, notify.Info(notify.CodeDispatched, fmt.Sprintf("order sent via %s", ch)))
	}
	d.log.Info("checkout complete", "session", s.ID, "channel", ch, "order_id", out.OrderID, "total", total.StringFixed(2))
	return out, nil
}

func (d *Dispatcher) precheck(ctx context.Context, s *domain.Session, p auth.Principal, c domain.Contact) error {
	if !p.Authenticated() {
		d.notice.Notify(ctx, notify.Warning(notify.CodeLoginRequired, "please log in to check out"))
		return ErrLoginRequired
	}
	if s.State() != domain.CollectingContact {
		d.notice.Notify(ctx, notify.Error(ErrInvalidState))
		return ErrInvalidState
	}
	if s.Cart().IsEmpty() {
		d.notice.Notify(ctx, notify.Warning(notify.CodeCartEmpty, "your cart is empty"))
		return ErrCartEmpty
	}
	if err := c.Validate(d.requirePhone); err != nil {
		d.notice.Notify(ctx, notify.Warning(notify.CodePhoneRequired, "please enter a phone number"))
		return err
	}
	return nil
}

func (d *Dispatcher) save(ctx context.Context, o domain.Order) error {
	payload, err := json.Marshal(domain.NewOrderPlaced(o))
	if err != nil {
		return err
	}
	return d.orders.SaveWithOutbox(ctx, o, outbox.Record{
		AggregateType: domain.AggregateOrder,
		AggregateID:   o.ID.String(),
		Type:          domain.EventOrderPlaced,
		Payload:       payload,
		Headers:       map[string]string{"channel": string(o.Channel)},
		Traceparent:   tracing.Traceparent(ctx),
	})
}

// fail reports err unless the session already moved on. State and cart are
// left as they are.
func (d *Dispatcher) fail(ctx context.Context, s *domain.Session, gen uint64, err error) error {
	d.log.Error("checkout failed", "session", s.ID, "err", err)
	s.Lock()
	stale := s.Generation() != gen
	s.Unlock()
	if stale {
		return errors.Join(err, ErrStale)
	}
	d.notice.Notify(ctx, notify.Error(err))
	return err
}
