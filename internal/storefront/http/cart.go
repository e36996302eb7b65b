package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	cart "github.com/dmehra2102/Bookstore-Storefront/internal/cart/domain"
	catalog "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
	checkoutapp "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/application"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
)

type lineView struct {
	Book     catalog.Book    `json:"book"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Session       string          `json:"session"`
	State         string          `json:"state"`
	Lines         []lineView      `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	RequiresPhone bool            `json:"requires_phone"`
}

func (h *Handler) view(s *domain.Session) cartView {
	s.Lock()
	defer s.Unlock()
	v := cartView{
		Session:       s.ID,
		State:         s.State().String(),
		Lines:         []lineView{},
		Total:         s.Cart().Total(),
		RequiresPhone: h.dispatcher.RequiresPhone(),
	}
	for _, pl := range s.Cart().Priced() {
		v.Lines = append(v.Lines, lineView{Book: pl.Book, Quantity: pl.Quantity, Subtotal: pl.Subtotal})
	}
	return v
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, h.view(sessionFrom(r)))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.Edit(func(c *cart.Cart) { c.Clear() })
	h.respond(w, r, http.StatusOK, h.view(s))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.catalog.Book(id); !ok {
		h.fail(w, r, errUnknownBook)
		return
	}
	s := sessionFrom(r)
	s.Edit(func(c *cart.Cart) { c.AddItem(id) })
	h.respond(w, r, http.StatusOK, h.view(s))
}

type quantityReq struct {
	Delta int `json:"delta"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req quantityReq
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s := sessionFrom(r)
	s.Edit(func(c *cart.Cart) { c.UpdateQuantity(id, req.Delta) })
	h.respond(w, r, http.StatusOK, h.view(s))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s := sessionFrom(r)
	s.Edit(func(c *cart.Cart) { c.RemoveItem(id) })
	h.respond(w, r, http.StatusOK, h.view(s))
}

func (h *Handler) startCheckout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := h.dispatcher.StartCheckout(r.Context(), s, auth.FromContext(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, h.view(s))
}

func (h *Handler) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	h.dispatcher.Cancel(s)
	h.respond(w, r, http.StatusOK, h.view(s))
}

type contactReq struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type dispatchFunc func(ctx context.Context, s *domain.Session, p auth.Principal, c domain.Contact) (checkoutapp.Outcome, error)

func (h *Handler) checkoutOrder(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, h.dispatcher.PersistAndCheckout)
}

func (h *Handler) checkoutWhatsApp(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, h.dispatcher.DispatchWhatsApp)
}

func (h *Handler) checkoutEmail(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, h.dispatcher.DispatchEmail)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, fn dispatchFunc) {
	var req contactReq
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p := auth.FromContext(r.Context())
	email := req.Email
	if email == "" {
		email = p.Email
	}
	out, err := fn(r.Context(), sessionFrom(r), p, domain.NewContact(email, req.Phone))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if out.OrderID != "" {
		status = http.StatusCreated
	}
	h.respond(w, r, status, out)
}
