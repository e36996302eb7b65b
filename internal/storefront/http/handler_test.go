package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/Bookstore-Storefront/internal/auth"
	catalogapp "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/application"
	catalog "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/domain"
	catalogsqlite "github.com/dmehra2102/Bookstore-Storefront/internal/catalog/infrastructure/sqlite"
	checkoutapp "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/application"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/messaging"
	"github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/session"
	checkoutsqlite "github.com/dmehra2102/Bookstore-Storefront/internal/checkout/infrastructure/sqlite"
	commentapp "github.com/dmehra2102/Bookstore-Storefront/internal/comment/application"
	commentsqlite "github.com/dmehra2102/Bookstore-Storefront/internal/comment/infrastructure/sqlite"
	"github.com/dmehra2102/Bookstore-Storefront/internal/notify"
	platform "github.com/dmehra2102/Bookstore-Storefront/internal/platform/sqlite"
	ratingapp "github.com/dmehra2102/Bookstore-Storefront/internal/rating/application"
	ratingsqlite "github.com/dmehra2102/Bookstore-Storefront/internal/rating/infrastructure/sqlite"
	"github.com/dmehra2102/Bookstore-Storefront/pkg/logging"
)

type testEnv struct {
	srv    *httptest.Server
	client *http.Client
	token  string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := logging.Discard()
	db := platform.OpenTest(t)

	books := catalogsqlite.NewRepository(log, db)
	require.NoError(t, books.Upsert(ctx,
		catalog.Book{ID: "1", Title: "The Prophet", Author: "Kahlil Gibran", Price: decimal.RequireFromString("29.99")},
		catalog.Book{ID: "2", Title: "Emma", Author: "Jane Austen", Price: decimal.RequireFromString("34.99")},
	))
	cat := catalogapp.NewService(log, books)
	_, err := cat.Refresh(ctx)
	require.NoError(t, err)

	notices := notify.NewRequestNotifier(log)
	sessions, err := session.NewRegistry(log, cat, 16)
	require.NoError(t, err)
	verifier := auth.NewVerifier(log, "test-secret")

	h := NewHandler(log, Deps{
		Catalog:  cat,
		Ratings:  ratingapp.NewService(log, ratingsqlite.NewRepository(log, db), notices),
		Comments: commentapp.NewService(log, commentsqlite.NewRepository(log, db), notices),
		Dispatcher: checkoutapp.NewDispatcher(log, checkoutsqlite.NewRepository(log, db),
			messaging.WhatsApp{Number: "15550100"},
			messaging.Email{Address: "shop@example.com", Subject: "New order"},
			notices),
		Sessions: sessions,
		Verifier: verifier,
		Origins:  []string{"*"},
	})
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	token, err := verifier.Issue("u1", "u1@example.com", time.Hour)
	require.NoError(t, err)
	return &testEnv{srv: srv, client: &http.Client{Jar: jar}, token: token}
}

type reply struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Notices []notify.Notice `json:"notices"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authed bool) (int, reply) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCheckoutFlow(t *testing.T) {
	env := newEnv(t)

	code, _ := env.do(t, http.MethodPost, "/checkout", nil, true)
	assert.Equal(t, http.StatusBadRequest, code, "empty cart")

	env.do(t, http.MethodPost, "/cart/items/1", nil, false)
	code, r := env.do(t, http.MethodPost, "/cart/items/2", nil, false)
	require.Equal(t, http.StatusOK, code)
	var view cartView
	require.NoError(t, json.Unmarshal(r.Data, &view))
	assert.Equal(t, "64.98", view.Total.StringFixed(2))
	assert.Len(t, view.Lines, 2)

	code, r = env.do(t, http.MethodPost, "/checkout", nil, false)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.Len(t, r.Notices, 1)
	assert.Equal(t, notify.CodeLoginRequired, r.Notices[0].Code)

	code, _ = env.do(t, http.MethodPost, "/checkout", nil, true)
	require.Equal(t, http.StatusOK, code)

	code, r = env.do(t, http.MethodPost, "/checkout/order", contactReq{Phone: "555"}, true)
	require.Equal(t, http.StatusCreated, code, r.Error)
	var out checkoutapp.Outcome
	require.NoError(t, json.Unmarshal(r.Data, &out))
	assert.NotEmpty(t, out.OrderID)
	assert.Equal(t, notify.CodeOrderPlaced, r.Notices[0].Code)

	_, r = env.do(t, http.MethodGet, "/cart", nil, false)
	require.NoError(t, json.Unmarshal(r.Data, &view))
	assert.Empty(t, view.Lines)
	assert.Equal(t, "browsing", view.State)
}

func TestWhatsAppDispatchReturnsLink(t *testing.T) {
	env := newEnv(t)
	env.do(t, http.MethodPost, "/cart/items/1", nil, false)
	env.do(t, http.MethodPost, "/checkout", nil, true)

	code, r := env.do(t, http.MethodPost, "/checkout/whatsapp", contactReq{}, true)
	require.Equal(t, http.StatusCreated, code, r.Error)
	var out checkoutapp.Outcome
	require.NoError(t, json.Unmarshal(r.Data, &out))
	assert.Contains(t, out.URL, "https://wa.me/15550100?text=The%20Prophet")
}

func TestCartEditsAndUnknownBook(t *testing.T) {
	env := newEnv(t)
	code, _ := env.do(t, http.MethodPost, "/cart/items/nope", nil, false)
	assert.Equal(t, http.StatusBadRequest, code)

	env.do(t, http.MethodPost, "/cart/items/1", nil, false)
	_, r := env.do(t, http.MethodPatch, "/cart/items/1", quantityReq{Delta: -5}, false)
	var view cartView
	require.NoError(t, json.Unmarshal(r.Data, &view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Quantity)

	_, r = env.do(t, http.MethodDelete, "/cart/items/1", nil, false)
	require.NoError(t, json.Unmarshal(r.Data, &view))
	assert.Empty(t, view.Lines)
}

func TestRatingEndpoints(t *testing.T) {
	env := newEnv(t)

	code, r := env.do(t, http.MethodPut, "/books/1/rating", ratingReq{Value: 4}, false)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, notify.CodeLoginRequired, r.Notices[0].Code)

	code, _ = env.do(t, http.MethodPut, "/books/1/rating", ratingReq{Value: 9}, true)
	assert.Equal(t, http.StatusBadRequest, code)

	_, r = env.do(t, http.MethodGet, "/books/1/rating", nil, false)
	assert.JSONEq(t, `{"book_id":"1","average":null,"count":0,"mine":null}`, string(r.Data))

	code, _ = env.do(t, http.MethodPut, "/books/1/rating", ratingReq{Value: 4}, true)
	require.Equal(t, http.StatusOK, code)
	_, r = env.do(t, http.MethodGet, "/books/1/rating", nil, true)
	assert.JSONEq(t, `{"book_id":"1","average":4,"count":1,"mine":4}`, string(r.Data))
}

func TestCommentEndpoints(t *testing.T) {
	env := newEnv(t)

	code, _ := env.do(t, http.MethodPost, "/books/2/comments", commentReq{Text: "hi"}, false)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, r := env.do(t, http.MethodPost, "/books/2/comments", commentReq{Text: "   "}, true)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Empty(t, r.Notices)

	code, _ = env.do(t, http.MethodPost, "/books/2/comments", commentReq{Text: "a classic"}, true)
	require.Equal(t, http.StatusCreated, code)

	_, r = env.do(t, http.MethodGet, "/books/2/comments", nil, false)
	var cs []commentView
	require.NoError(t, json.Unmarshal(r.Data, &cs))
	require.Len(t, cs, 1)
	assert.Equal(t, "a classic", cs[0].Comment)
	assert.NotEmpty(t, cs[0].Posted)
}
