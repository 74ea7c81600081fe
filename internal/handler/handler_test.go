package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/product"
	"github.com/weblarek/storefront/internal/session"
	"github.com/weblarek/storefront/internal/view"
)

type stubCatalog struct {
	list product.List
	err  error
}

func (s *stubCatalog) FetchProducts(context.Context) (product.List, error) {
	return s.list, s.err
}

type stubOrders struct {
	result order.Result
	err    error
}

func (s *stubOrders) SubmitOrder(context.Context, order.Draft) (order.Result, error) {
	return s.result, s.err
}

func catalogOf(products ...product.Product) *stubCatalog {
	return &stubCatalog{list: product.List{Items: products, Total: len(products)}}
}

func widget() product.Product {
	return product.Product{
		ID:       "p1",
		Title:    "Widget",
		Category: product.CategoryOther,
		Price:    decimal.NullDecimal{Decimal: decimal.NewFromInt(750), Valid: true},
	}
}

func priceless() product.Product {
	return product.Product{ID: "p2", Title: "Artifact", Category: product.CategoryOther}
}

// newServer starts the storefront over a stubbed upstream and returns a
// client with a cookie jar, so consecutive requests share one session.
func newServer(t *testing.T, catalog *stubCatalog, orders *stubOrders) (*httptest.Server, *http.Client) {
	t.Helper()
	render, err := view.NewRenderer()
	require.NoError(t, err)

	store := session.NewStore(session.StoreConfig{TTL: time.Minute}, session.Deps{
		Catalog: catalog,
		Orders:  orders,
		Render:  render,
		Logger:  zap.NewNop(),
	})

	mux := http.NewServeMux()
	New(store).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(body)
}

func do(t *testing.T, client *http.Client, method, url string, form url.Values) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(raw)
}

func TestPage_StartsSession(t *testing.T) {
	srv, client := newServer(t, catalogOf(widget()), &stubOrders{})

	resp, body := get(t, client, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Widget")

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "first contact sets the session cookie")

	// Second request rides the same session and gets no new cookie.
	resp, _ = get(t, client, srv.URL+"/fragment/catalog")
	assert.Empty(t, resp.Cookies())
}

func TestProductModal(t *testing.T) {
	srv, client := newServer(t, catalogOf(widget()), &stubOrders{})

	resp, body := get(t, client, srv.URL+"/product/p1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Widget")

	resp, _ = get(t, client, srv.URL+"/product/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBasketRoutes(t *testing.T) {
	srv, client := newServer(t, catalogOf(widget(), priceless()), &stubOrders{})

	_, body := get(t, client, srv.URL+"/basket")
	assert.Contains(t, body, "Basket is empty")

	resp, body := do(t, client, http.MethodPost, srv.URL+"/basket/p1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Widget")

	// The basket survives across requests within one session.
	_, body = get(t, client, srv.URL+"/basket")
	assert.Contains(t, body, "Widget")

	resp, _ = do(t, client, http.MethodPost, srv.URL+"/basket/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, client, http.MethodPost, srv.URL+"/basket/p2", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "priceless product is not for sale")

	_, body = do(t, client, http.MethodDelete, srv.URL+"/basket/p1", nil)
	assert.Contains(t, body, "Basket is empty")
}

func TestOrderField(t *testing.T) {
	srv, client := newServer(t, catalogOf(widget()), &stubOrders{})

	resp, body := do(t, client, http.MethodPost, srv.URL+"/order/field", url.Values{
		"field": {"address"}, "address": {"Spooner St 31"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Spooner St 31"`, "value read from the input's own name")

	resp, body = do(t, client, http.MethodPost, srv.URL+"/order/field", url.Values{
		"field": {"payment"}, "value": {"cash"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "form_contacts", "shipping stage complete moves on to contacts")

	resp, _ = do(t, client, http.MethodPost, srv.URL+"/order/field", url.Values{
		"field": {"favourite-color"}, "value": {"green"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrderSubmit(t *testing.T) {
	orders := &stubOrders{result: order.Result{ID: "ord-1", Total: decimal.NewFromInt(750)}}
	srv, client := newServer(t, catalogOf(widget()), orders)

	_, _ = do(t, client, http.MethodPost, srv.URL+"/basket/p1", nil)
	for field, value := range map[string]string{
		"payment": "online",
		"address": "Spooner St 31",
		"email":   "a@b.c",
		"phone":   "+71234567890",
	} {
		resp, _ := do(t, client, http.MethodPost, srv.URL+"/order/field", url.Values{
			"field": {field}, "value": {value},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := do(t, client, http.MethodPost, srv.URL+"/order/submit", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Order placed")
	assert.Contains(t, body, "750 synapses spent")

	_, body = get(t, client, srv.URL+"/basket")
	assert.Contains(t, body, "Basket is empty")
}

func TestOrderSubmit_UpstreamDown(t *testing.T) {
	orders := &stubOrders{err: errors.New("connection refused")}
	srv, client := newServer(t, catalogOf(widget()), orders)

	_, _ = do(t, client, http.MethodPost, srv.URL+"/basket/p1", nil)
	for field, value := range map[string]string{
		"payment": "online",
		"address": "Spooner St 31",
		"email":   "a@b.c",
		"phone":   "+71234567890",
	} {
		_, _ = do(t, client, http.MethodPost, srv.URL+"/order/field", url.Values{
			"field": {field}, "value": {value},
		})
	}

	resp, _ := do(t, client, http.MethodPost, srv.URL+"/order/submit", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// State is untouched, the visitor can retry.
	_, body := get(t, client, srv.URL+"/basket")
	assert.Contains(t, body, "Widget")
}

func TestOrderClear(t *testing.T) {
	srv, client := newServer(t, catalogOf(widget()), &stubOrders{})

	_, _ = do(t, client, http.MethodPost, srv.URL+"/basket/p1", nil)
	resp, body := do(t, client, http.MethodPost, srv.URL+"/order/clear", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Widget", "page re-render shows the catalog")

	_, body = get(t, client, srv.URL+"/basket")
	assert.Contains(t, body, "Basket is empty")
}
