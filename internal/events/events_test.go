package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_HandlersRunInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var got []int
	bus.Subscribe(BasketChanged, func(any) { got = append(got, 1) })
	bus.Subscribe(BasketChanged, func(any) { got = append(got, 2) })
	bus.Subscribe(BasketChanged, func(any) { got = append(got, 3) })

	bus.Publish(BasketChanged, nil)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestBus_PayloadDelivered(t *testing.T) {
	bus := NewBus()

	var got any
	bus.Subscribe(BasketAdd, func(payload any) { got = payload })
	bus.Publish(BasketAdd, BasketAddPayload{ProductID: "p1"})

	require.IsType(t, BasketAddPayload{}, got)
	assert.Equal(t, "p1", got.(BasketAddPayload).ProductID)
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(OrderReady, OrderReadyPayload{})
	})
}

func TestBus_TopicsAreIsolated(t *testing.T) {
	bus := NewBus()

	var basket, products int
	bus.Subscribe(BasketChanged, func(any) { basket++ })
	bus.Subscribe(ProductsChanged, func(any) { products++ })

	bus.Publish(BasketChanged, nil)
	bus.Publish(BasketChanged, nil)
	bus.Publish(ProductsChanged, nil)

	assert.Equal(t, 2, basket)
	assert.Equal(t, 1, products)
}

func TestBus_HandlerOnSeveralTopics(t *testing.T) {
	bus := NewBus()

	calls := 0
	h := func(any) { calls++ }
	bus.Subscribe(ProductsChanged, h)
	bus.Subscribe(BasketChanged, h)

	bus.Publish(ProductsChanged, nil)
	bus.Publish(BasketChanged, nil)
	assert.Equal(t, 2, calls)
}
