// Package session owns the per-visitor shopping session: one event bus, one
// state model, and the wiring that binds user intents to state mutations and
// state changes to fragment re-renders. This is the orchestration layer; the
// HTTP handlers only translate requests into session calls.
package session

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/product"
	"github.com/weblarek/storefront/internal/events"
	"github.com/weblarek/storefront/internal/larek"
	"github.com/weblarek/storefront/internal/shop"
	"github.com/weblarek/storefront/internal/view"
)

// OrderPlacer submits completed orders upstream. Implemented by the larek
// client and by test stubs.
type OrderPlacer interface {
	SubmitOrder(ctx context.Context, draft order.Draft) (order.Result, error)
}

// Deps are the shared dependencies every session is built from.
type Deps struct {
	Catalog product.Source
	Orders  OrderPlacer
	Render  *view.Renderer
	Logger  *zap.Logger
}

// Session is the server-side counterpart of one open storefront page. All
// methods serialize on an internal mutex; the bus wiring below runs inside
// the mutating call, so a fragment read right after a mutation sees the
// re-rendered markup.
type Session struct {
	ID string

	mu    sync.Mutex
	deps  Deps
	bus   *events.Bus
	state *shop.State
	lg    *zap.Logger

	// Fragments re-rendered by the change-event subscriptions.
	catalogHTML string
	basketHTML  string
	formHTML    string
}

// New constructs a session and wires its bus: view intents mutate the state
// model, model change events re-render the cached fragments.
func New(id string, deps Deps) *Session {
	bus := events.NewBus()
	s := &Session{
		ID:    id,
		deps:  deps,
		bus:   bus,
		state: shop.New(bus),
		lg:    deps.Logger.With(zap.String("session", id)),
	}

	// Intents → model.
	bus.Subscribe(events.BasketAdd, func(payload any) {
		p := payload.(events.BasketAddPayload)
		if err := s.state.AddToBasket(p.ProductID); err != nil {
			s.lg.Warn("Add to basket rejected", zap.String("product", p.ProductID), zap.Error(err))
		}
	})
	bus.Subscribe(events.BasketRemove, func(payload any) {
		p := payload.(events.BasketRemovePayload)
		s.state.RemoveFromBasket(p.ProductID)
	})
	bus.Subscribe(events.OrderFieldSet, func(payload any) {
		p := payload.(events.OrderFieldSetPayload)
		s.state.SetOrderField(p.Field, p.Value)
	})
	bus.Subscribe(events.OrderClear, func(any) {
		s.state.ClearBasket()
		s.state.ClearOrder()
	})

	// Model → fragments.
	bus.Subscribe(events.ProductsChanged, func(any) {
		s.renderCatalog()
		s.renderBasket()
	})
	bus.Subscribe(events.BasketChanged, func(any) {
		s.renderCatalog()
		s.renderBasket()
	})
	bus.Subscribe(events.FormErrorsChanged, func(any) {
		s.renderActiveForm()
	})

	s.renderCatalog()
	s.renderBasket()
	return s
}

// LoadCatalog fetches the catalog once at session start. A failed fetch is
// logged and leaves the (empty) catalog unchanged; the page renders without
// cards rather than erroring out.
func (s *Session) LoadCatalog(ctx context.Context) {
	list, err := s.deps.Catalog.FetchProducts(ctx)
	if err != nil {
		s.lg.Error("Catalog fetch failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetProducts(list.Items)
}

// PageHTML renders the full page shell around the current catalog fragment.
func (s *Session) PageHTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Render.Page(view.PageData{
		BasketCount: s.state.BasketLen(),
		Catalog:     s.catalogData(),
	})
}

// CatalogHTML returns the cached card grid fragment.
func (s *Session) CatalogHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogHTML
}

// BasketHTML returns the cached basket fragment.
func (s *Session) BasketHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basketHTML
}

// ModalHTML renders the product detail modal for the identified product.
func (s *Session) ModalHTML(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.state.Product(id)
	if err != nil {
		return "", err
	}
	return s.deps.Render.Modal(view.NewModal(p, s.state.InBasket(id)))
}

// AddToBasket publishes the add intent for the identified product. Unknown
// products and priceless products are rejected before the intent is
// published so the handler can map them to proper status codes.
func (s *Session) AddToBasket(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.state.Product(id)
	if err != nil {
		return err
	}
	if p.Priceless() {
		return shop.ErrPriceless
	}
	s.bus.Publish(events.BasketAdd, events.BasketAddPayload{ProductID: id})
	return nil
}

// RemoveFromBasket publishes the remove intent. Removing an absent product
// is fine; the basket fragment refreshes either way.
func (s *Session) RemoveFromBasket(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(events.BasketRemove, events.BasketRemovePayload{ProductID: id})
}

// OrderFormHTML renders the checkout form for the current stage: shipping
// until address and payment are both set, contacts afterwards.
func (s *Session) OrderFormHTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderForm()
}

// SetOrderField publishes the field-set intent and returns the re-rendered
// active form fragment, whose validity and inline errors reflect the edit.
func (s *Session) SetOrderField(field order.Field, value string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(events.OrderFieldSet, events.OrderFieldSetPayload{Field: field, Value: value})
	if s.formHTML == "" {
		return s.renderForm()
	}
	return s.formHTML, nil
}

// Submit builds the order payload from the draft and the basket and sends it
// upstream. Outcomes:
//   - incomplete draft: the current form fragment is returned instead, the
//     same way the page re-opens the form;
//   - transport error: state is untouched and the error is returned;
//   - business rejection (result carries an error message): the failure
//     fragment is returned and basket/draft are kept for a retry;
//   - success: OrderCompleted is published, basket and draft are cleared,
//     and the success fragment is returned.
func (s *Session) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.Order()
	if !draft.Complete() {
		return s.renderForm()
	}

	// Items and total are computed here and nowhere else; during editing the
	// draft never carries them.
	draft.Items = s.state.BasketIDs()
	draft.Total = s.state.TotalPrice()

	result, err := s.deps.Orders.SubmitOrder(ctx, draft)
	if err != nil {
		s.lg.Error("Order submission failed", zap.Error(err))
		return "", errors.Wrap(err, "submit order")
	}

	if result.Rejected() {
		s.lg.Warn("Order rejected upstream", zap.String("reason", result.Error))
		return s.deps.Render.Result(view.ResultData{
			Title:       "Order failed",
			Description: result.Error,
			Retry:       true,
		})
	}

	s.bus.Publish(events.OrderCompleted, events.OrderCompletedPayload{Result: result})
	html, err := s.deps.Render.Result(view.ResultData{
		Title:       "Order placed",
		Description: view.FormatTotal(result.Total) + " spent",
	})
	if err != nil {
		return "", err
	}
	s.bus.Publish(events.OrderClear, nil)
	return html, nil
}

// Clear publishes the clear intent and returns the refreshed catalog
// fragment for the page to swap in.
func (s *Session) Clear() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(events.OrderClear, nil)
	return s.catalogHTML
}

// --- fragment rendering, called with mu held (or from bus handlers inside a
// mutating call, which is the same thing) ---

func (s *Session) catalogData() view.CatalogData {
	var data view.CatalogData
	for _, p := range s.state.Products() {
		data.Cards = append(data.Cards, view.NewCard(p))
	}
	return data
}

func (s *Session) renderCatalog() {
	html, err := s.deps.Render.Catalog(s.catalogData())
	if err != nil {
		s.lg.Error("Catalog render failed", zap.Error(err))
		return
	}
	s.catalogHTML = html
}

func (s *Session) renderBasket() {
	html, err := s.deps.Render.Basket(view.NewBasket(s.state))
	if err != nil {
		s.lg.Error("Basket render failed", zap.Error(err))
		return
	}
	s.basketHTML = html
}

func (s *Session) renderActiveForm() {
	html, err := s.renderForm()
	if err != nil {
		s.lg.Error("Form render failed", zap.Error(err))
		return
	}
	s.formHTML = html
}

// renderForm picks the stage: shipping until address and payment are filled,
// contacts afterwards.
func (s *Session) renderForm() (string, error) {
	draft := s.state.Order()
	errs := s.state.FieldErrors()
	if draft.Address == "" || draft.Payment == order.PaymentUnset {
		return s.deps.Render.OrderForm(view.NewOrderForm(draft, errs))
	}
	return s.deps.Render.ContactsForm(view.NewContactsForm(draft, errs))
}

// Compile-time check: the larek client satisfies both session-facing
// interfaces.
var (
	_ product.Source = (*larek.Client)(nil)
	_ OrderPlacer    = (*larek.Client)(nil)
)
