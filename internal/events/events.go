// Package events provides the in-session publish/subscribe dispatcher that
// decouples state mutations from fragment rendering. Topics form a closed set
// of constants; each topic carries one well-known payload type. The bus is an
// explicit dependency: every component receives the instance it should talk
// to, there is no package-level default.
package events

import "sync"

// Topic identifies a class of events on the bus.
type Topic string

// Model → view change notifications.
const (
	// ProductsChanged fires when the catalog is replaced or the basket is
	// cleared (the card grid must be re-rendered either way). Payload:
	// ProductsChangedPayload.
	ProductsChanged Topic = "products:changed"
	// BasketChanged fires after every basket mutation, including removals of
	// absent items. Payload: BasketChangedPayload.
	BasketChanged Topic = "basket:changed"
	// FormErrorsChanged fires on every validation pass with the full,
	// wholesale-replaced error map. Payload: FormErrorsChangedPayload.
	FormErrorsChanged Topic = "form:errors-changed"
	// OrderReady fires when the active form group passes validation.
	// Payload: OrderReadyPayload.
	OrderReady Topic = "order:ready"
	// OrderCompleted fires after the upstream accepted an order.
	// Payload: OrderCompletedPayload.
	OrderCompleted Topic = "order:completed"
)

// View intent → model mutations.
const (
	// BasketAdd asks the model to put a product into the basket.
	// Payload: BasketAddPayload.
	BasketAdd Topic = "basket:add"
	// BasketRemove asks the model to drop a product from the basket.
	// Payload: BasketRemovePayload.
	BasketRemove Topic = "basket:remove"
	// OrderFieldSet assigns one order draft field. Payload:
	// OrderFieldSetPayload.
	OrderFieldSet Topic = "order:field-set"
	// OrderClear resets the basket and the order draft. No payload.
	OrderClear Topic = "order:clear"
)

// Handler receives the payload published for the topic it subscribed to.
type Handler func(payload any)

// Bus is a synchronous publish/subscribe hub. Handlers for a topic run in
// registration order, on the publishing goroutine. Publishing to a topic with
// no subscribers is a no-op.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]Handler)}
}

// Subscribe registers handler for topic. A topic may have any number of
// handlers; a handler may be registered for several topics.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish invokes every handler registered for topic, in registration order,
// before returning.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	hs := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}
