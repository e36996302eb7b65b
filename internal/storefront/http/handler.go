package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	catalogapp "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/application"
	checkoutapp "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/application"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/domain"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/session"
	commentapp "github.com/dmehra2102/Bookstore-Storefront/internal/comment/application"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notify"
	ratingapp "github.com/dmehra2102/Bookstore-Storefront/internal/rating/application"
)

const sessionCookie = "sid"

type Handler struct {
	log        *slog.Logger
	catalog    *catalogapp.Service
	ratings    *ratingapp.Service
	comments   *commentapp.Service
	dispatcher *checkoutapp.Dispatcher
	sessions   *session.Registry
	verifier   *auth.Verifier
	origins    []string
	tracer     trace.Tracer
}

type Deps struct {
	Catalog    *catalogapp.Service
	Ratings    *ratingapp.Service
	Comments   *commentapp.Service
	Dispatcher *checkoutapp.Dispatcher
	Sessions   *session.Registry
	Verifier   *auth.Verifier
	Origins    []string
}

func NewHandler(log *slog.Logger, d Deps) *Handler {
	return &Handler{
		log:        log,
		catalog:    d.Catalog,
		ratings:    d.Ratings,
		comments:   d.Comments,
		dispatcher: d.Dispatcher,
		sessions:   d.Sessions,
		verifier:   d.Verifier,
		origins:    d.Origins,
		tracer:     otel.Tracer("storefront-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.traced, h.withNotices, h.verifier.Middleware)

	r.Get("/books", h.listBooks)
	r.Route("/books/{id}", func(r chi.Router) {
		r.Get("/rating", h.getRating)
		r.Put("/rating", h.putRating)
		r.Get("/comments", h.listComments)
		r.Post("/comments", h.addComment)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.withSession)
		r.Get("/cart", h.getCart)
		r.Delete("/cart", h.clearCart)
		r.Post("/cart/items/{id}", h.addItem)
		r.Patch("/cart/items/{id}", h.updateItem)
		r.Delete("/cart/items/{id}", h.removeItem)

		r.Post("/checkout", h.startCheckout)
		r.Delete("/checkout", h.cancelCheckout)
		r.Post("/checkout/order", h.checkoutOrder)
		r.Post("/checkout/whatsapp", h.checkoutWhatsApp)
		r.Post("/checkout/email", h.checkoutEmail)
	})

	return cors.New(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "traceparent"},
		AllowCredentials: true,
	}).Handler(r)
}

func (h *Handler) traced(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := h.tracer.Start(ctx, r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) withNotices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := notify.WithRecorder(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type sessionKey struct{}

// withSession resolves the sid cookie to a browsing session, issuing a new
// cookie when the session is new.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
		s, created := h.sessions.Obtain(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().Add(30 * 24 * time.Hour),
			})
		}
		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("session.id", s.ID))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	})
}

func sessionFrom(r *http.Request) *domain.Session {
	return r.Context().Value(sessionKey{}).(*domain.Session)
}

type envelope struct {
	Data    any             `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Notices []notify.Notice `json:"notices"`
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.write(w, r, status, envelope{Data: data})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", r.URL.Path, "err", err)
		trace.SpanFromContext(r.Context()).RecordError(err)
	}
	h.write(w, r, status, envelope{Error: err.Error()})
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	body.Notices = []notify.Notice{}
	if rec := notify.RecorderFrom(r.Context()); rec != nil {
		body.Notices = rec.Notices()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

var errBadRequest = errors.New("invalid body")

func statusFor(err error) int {
	switch {
	case errors.Is(err, checkoutapp.ErrStale):
		return http.StatusConflict
	case errors.Is(err, checkoutapp.ErrLoginRequired),
		errors.Is(err, ratingapp.ErrLoginRequired),
		errors.Is(err, commentapp.ErrLoginRequired):
		return http.StatusUnauthorized
	case errors.Is(err, errBadRequest),
		errors.Is(err, errUnknownBook),
		errors.Is(err, checkoutapp.ErrCartEmpty),
		errors.Is(err, checkoutapp.ErrPhoneRequired),
		errors.Is(err, ratingapp.ErrInvalidRating),
		errors.Is(err, commentapp.ErrEmptyComment):
		return http.StatusBadRequest
	case errors.Is(err, checkoutapp.ErrInvalidState):
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		return errBadRequest
	}
	return nil
}
