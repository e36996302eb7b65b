package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	ratingdomain "github.com/dmehra2102/Bookstore-Storefront/internal/rating/domain"
)

var errUnknownBook = errors.New("unknown book")

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalog.ListBooks(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, books)
}

type ratingView struct {
	ratingdomain.Summary
	Mine *int `json:"mine"`
}

func (h *Handler) getRating(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	summary, err := h.ratings.Summary(r.Context(), bookID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	mine, err := h.ratings.UserRating(r.Context(), bookID, auth.FromContext(r.Context()).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, ratingView{Summary: summary, Mine: mine})
}

type ratingReq struct {
	Value int `json:"value"`
}

func (h *Handler) putRating(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	var req ratingReq
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p := auth.FromContext(r.Context())
	summary, err := h.ratings.Submit(r.Context(), p, bookID, req.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := req.Value
	h.respond(w, r, http.StatusOK, ratingView{Summary: summary, Mine: &v})
}

type commentView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Posted    string    `json:"posted"`
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	cs, err := h.comments.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]commentView, 0, len(cs))
	for _, c := range cs {
		out = append(out, commentView{
			ID:        c.ID.String(),
			UserID:    c.UserID,
			Comment:   c.Text,
			CreatedAt: c.CreatedAt,
			Posted:    humanize.Time(c.CreatedAt),
		})
	}
	h.respond(w, r, http.StatusOK, out)
}

type commentReq struct {
	Text string `json:"text"`
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	var req commentReq
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.comments.Add(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, commentView{
		ID:        c.ID.String(),
		UserID:    c.UserID,
		Comment:   c.Text,
		CreatedAt: c.CreatedAt,
		Posted:    humanize.Time(c.CreatedAt),
	})
}
