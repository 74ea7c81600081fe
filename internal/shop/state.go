// Package shop holds the per-session application state: the product catalog,
// the basket, the order draft, and the current validation errors. Every
// mutation goes through the State methods, which publish the matching change
// event on the session bus; nothing else may emit those topics.
package shop

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/product"
	"github.com/weblarek/storefront/internal/events"
)

// ErrPriceless is returned when a priceless product is added to the basket.
// Priceless products are displayed as not-for-sale and never become basket
// members.
var ErrPriceless = errors.New("product is not for sale")

// State is the single source of truth for one shopping session. It is not
// safe for concurrent use; the owning session serializes access.
type State struct {
	bus *events.Bus

	catalog     []product.Product
	catalogByID map[string]product.Product
	basket      *Basket
	draft       order.Draft
	fieldErrors order.FieldErrors
}

// New creates an empty State publishing on bus.
func New(bus *events.Bus) *State {
	return &State{
		bus:         bus,
		catalogByID: make(map[string]product.Product),
		basket:      NewBasket(),
		fieldErrors: make(order.FieldErrors),
	}
}

// SetProducts replaces the catalog and emits ProductsChanged.
func (s *State) SetProducts(list []product.Product) {
	s.catalog = list
	s.catalogByID = make(map[string]product.Product, len(list))
	for _, p := range list {
		s.catalogByID[p.ID] = p
	}
	s.bus.Publish(events.ProductsChanged, events.ProductsChangedPayload{Products: s.Products()})
}

// Products returns the current catalog in upstream order.
func (s *State) Products() []product.Product {
	items := make([]product.Product, len(s.catalog))
	copy(items, s.catalog)
	return items
}

// Product looks a catalog item up by id.
func (s *State) Product(id string) (product.Product, error) {
	p, ok := s.catalogByID[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

// AddToBasket puts the identified catalog product into the basket and emits
// BasketChanged. Adding an already-present product is a silent no-op; adding
// a priceless product fails with ErrPriceless; adding an unknown id fails
// with product.ErrNotFound.
func (s *State) AddToBasket(id string) error {
	p, err := s.Product(id)
	if err != nil {
		return err
	}
	if p.Priceless() {
		return ErrPriceless
	}
	if !s.basket.Add(p) {
		return nil
	}
	s.emitBasketChanged()
	return nil
}

// RemoveFromBasket drops the identified product. BasketChanged is emitted
// whether or not the product was present, so dependent fragments always
// refresh.
func (s *State) RemoveFromBasket(id string) {
	s.basket.Remove(id)
	s.emitBasketChanged()
}

// InBasket reports basket membership by product id.
func (s *State) InBasket(id string) bool {
	return s.basket.Contains(id)
}

// BasketItems returns the basket contents in insertion order.
func (s *State) BasketItems() []product.Product {
	return s.basket.Items()
}

// BasketIDs returns the basket product identifiers in insertion order.
func (s *State) BasketIDs() []string {
	return s.basket.IDs()
}

// BasketLen returns the number of items in the basket.
func (s *State) BasketLen() int {
	return s.basket.Len()
}

// TotalPrice sums the prices of all basket items, counting priceless items
// as zero.
func (s *State) TotalPrice() decimal.Decimal {
	return s.basket.Total()
}

// SetOrderField assigns one draft field, re-validates that field's form
// group, and emits FormErrorsChanged. When the group is valid it also emits
// OrderReady.
func (s *State) SetOrderField(field order.Field, value string) {
	s.draft.Set(field, value)
	if s.ValidateOrder(field) {
		s.bus.Publish(events.OrderReady, events.OrderReadyPayload{Draft: s.draft})
	}
}

// ValidateOrder recomputes the full error map for the group the field
// belongs to, replaces the stored map, emits FormErrorsChanged, and reports
// whether the map is empty.
func (s *State) ValidateOrder(field order.Field) bool {
	s.fieldErrors = s.draft.Validate(field)
	s.bus.Publish(events.FormErrorsChanged, events.FormErrorsChangedPayload{Errors: s.FieldErrors()})
	return s.fieldErrors.Valid()
}

// Order returns a copy of the current draft.
func (s *State) Order() order.Draft {
	return s.draft
}

// FieldErrors returns a copy of the current validation map.
func (s *State) FieldErrors() order.FieldErrors {
	errs := make(order.FieldErrors, len(s.fieldErrors))
	for k, v := range s.fieldErrors {
		errs[k] = v
	}
	return errs
}

// ClearBasket empties the basket and emits ProductsChanged: the card grid
// shows basket membership, so it must re-render along with the counter.
func (s *State) ClearBasket() {
	s.basket.Clear()
	s.bus.Publish(events.ProductsChanged, events.ProductsChangedPayload{Products: s.Products()})
}

// ClearOrder resets the draft to its defaults. It triggers no validation and
// emits nothing.
func (s *State) ClearOrder() {
	s.draft.Reset()
	s.fieldErrors = make(order.FieldErrors)
}

func (s *State) emitBasketChanged() {
	s.bus.Publish(events.BasketChanged, events.BasketChangedPayload{
		Items: s.basket.Items(),
		Total: s.basket.Total(),
	})
}
