package events

import (
	"github.com/shopspring/decimal"

	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/product"
)

// ProductsChangedPayload carries the full catalog after a replacement, and
// after a basket clear (signalling a card grid refresh).
type ProductsChangedPayload struct {
	Products []product.Product
}

// BasketChangedPayload carries the basket contents and the recomputed total.
type BasketChangedPayload struct {
	Items []product.Product
	Total decimal.Decimal
}

// FormErrorsChangedPayload carries the wholesale-replaced validation map.
type FormErrorsChangedPayload struct {
	Errors order.FieldErrors
}

// OrderReadyPayload carries a draft whose active form group just passed
// validation.
type OrderReadyPayload struct {
	Draft order.Draft
}

// OrderCompletedPayload carries the upstream result of a successful
// submission.
type OrderCompletedPayload struct {
	Result order.Result
}

// BasketAddPayload asks the model to add the identified product.
type BasketAddPayload struct {
	ProductID string
}

// BasketRemovePayload asks the model to remove the identified product.
type BasketRemovePayload struct {
	ProductID string
}

// OrderFieldSetPayload assigns one draft field.
type OrderFieldSetPayload struct {
	Field order.Field
	Value string
}
