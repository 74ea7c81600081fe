package session

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/product"
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
	last   order.Draft
	calls  int
}

func (s *stubOrders) SubmitOrder(_ context.Context, draft order.Draft) (order.Result, error) {
	s.calls++
	s.last = draft
	return s.result, s.err
}

func priced(id, title string, price int64) product.Product {
	return product.Product{
		ID:       id,
		Title:    title,
		Category: product.CategoryOther,
		Price:    decimal.NullDecimal{Decimal: decimal.NewFromInt(price), Valid: true},
	}
}

func newTestSession(t *testing.T, orders *stubOrders, products ...product.Product) *Session {
	t.Helper()
	render, err := view.NewRenderer()
	require.NoError(t, err)

	sess := New("test", Deps{
		Catalog: &stubCatalog{list: product.List{Items: products, Total: len(products)}},
		Orders:  orders,
		Render:  render,
		Logger:  zap.NewNop(),
	})
	sess.LoadCatalog(context.Background())
	return sess
}

func fillDraft(sess *Session) {
	_, _ = sess.SetOrderField(order.FieldPayment, "online")
	_, _ = sess.SetOrderField(order.FieldAddress, "Spooner St 31")
	_, _ = sess.SetOrderField(order.FieldEmail, "a@b.c")
	_, _ = sess.SetOrderField(order.FieldPhone, "+71234567890")
}

func TestLoadCatalog_FailureLeavesStateUnchanged(t *testing.T) {
	render, err := view.NewRenderer()
	require.NoError(t, err)

	sess := New("test", Deps{
		Catalog: &stubCatalog{err: errors.New("upstream down")},
		Orders:  &stubOrders{},
		Render:  render,
		Logger:  zap.NewNop(),
	})
	sess.LoadCatalog(context.Background())

	html, err := sess.PageHTML()
	require.NoError(t, err)
	assert.NotContains(t, html, "card__title", "page renders with no cards")
}

func TestBasketFlow(t *testing.T) {
	sess := newTestSession(t, &stubOrders{}, priced("p1", "Widget", 100))

	assert.Contains(t, sess.BasketHTML(), "Basket is empty")

	require.NoError(t, sess.AddToBasket("p1"))
	basket := sess.BasketHTML()
	assert.Contains(t, basket, "Widget")
	assert.Contains(t, basket, "100 synapses")

	// Modal reflects membership.
	modal, err := sess.ModalHTML("p1")
	require.NoError(t, err)
	assert.Contains(t, modal, "Already in basket")

	sess.RemoveFromBasket("p1")
	assert.Contains(t, sess.BasketHTML(), "Basket is empty")
}

func TestOrderForm_StageProgression(t *testing.T) {
	sess := newTestSession(t, &stubOrders{}, priced("p1", "Widget", 100))

	// Shipping stage first.
	html, err := sess.OrderFormHTML()
	require.NoError(t, err)
	assert.Contains(t, html, "form_order")

	// Still shipping until both address and payment are set.
	html, err = sess.SetOrderField(order.FieldAddress, "Spooner St 31")
	require.NoError(t, err)
	assert.Contains(t, html, "form_order")
	assert.Contains(t, html, "a payment method must be chosen")

	_, err = sess.SetOrderField(order.FieldPayment, "cash")
	require.NoError(t, err)
	html, err = sess.OrderFormHTML()
	require.NoError(t, err)
	assert.Contains(t, html, "form_contacts")
}

func TestSubmit_Success(t *testing.T) {
	orders := &stubOrders{result: order.Result{ID: "ord-1", Total: decimal.NewFromInt(100)}}
	sess := newTestSession(t, orders, priced("p1", "Widget", 100))

	require.NoError(t, sess.AddToBasket("p1"))
	fillDraft(sess)

	html, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, "Order placed")
	assert.Contains(t, html, "100 synapses spent")

	// Payload carried the basket ids and the computed total.
	require.Equal(t, 1, orders.calls)
	assert.Equal(t, []string{"p1"}, orders.last.Items)
	assert.True(t, decimal.NewFromInt(100).Equal(orders.last.Total))

	// Basket and draft are cleared after success.
	assert.Contains(t, sess.BasketHTML(), "Basket is empty")
	form, err := sess.OrderFormHTML()
	require.NoError(t, err)
	assert.Contains(t, form, "form_order", "draft reset back to the shipping stage")
	assert.NotContains(t, form, "Spooner St 31")
}

func TestSubmit_BusinessErrorKeepsState(t *testing.T) {
	orders := &stubOrders{result: order.Result{ID: "ord-2", Error: "insufficient funds"}}
	sess := newTestSession(t, orders, priced("p1", "Widget", 100))

	require.NoError(t, sess.AddToBasket("p1"))
	fillDraft(sess)

	html, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, "Order failed")
	assert.Contains(t, html, "insufficient funds")
	assert.Contains(t, html, "Try again")

	// A rejected order keeps the basket and the draft for a retry.
	assert.Contains(t, sess.BasketHTML(), "Widget")
	form, err := sess.OrderFormHTML()
	require.NoError(t, err)
	assert.Contains(t, form, "form_contacts")
}

func TestSubmit_TransportErrorKeepsState(t *testing.T) {
	orders := &stubOrders{err: errors.New("connection refused")}
	sess := newTestSession(t, orders, priced("p1", "Widget", 100))

	require.NoError(t, sess.AddToBasket("p1"))
	fillDraft(sess)

	_, err := sess.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, sess.BasketHTML(), "Widget")
}

func TestSubmit_IncompleteDraftReopensForm(t *testing.T) {
	orders := &stubOrders{}
	sess := newTestSession(t, orders, priced("p1", "Widget", 100))
	require.NoError(t, sess.AddToBasket("p1"))

	html, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, "form_order")
	assert.Zero(t, orders.calls, "nothing was sent upstream")
}

func TestClear(t *testing.T) {
	sess := newTestSession(t, &stubOrders{}, priced("p1", "Widget", 100))
	require.NoError(t, sess.AddToBasket("p1"))
	fillDraft(sess)

	sess.Clear()
	assert.Contains(t, sess.BasketHTML(), "Basket is empty")
	form, err := sess.OrderFormHTML()
	require.NoError(t, err)
	assert.Contains(t, form, "form_order")
}
