// Package product defines the catalog item model shared by the state model,
// the remote client, and the views.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist in the
// current catalog.
var ErrNotFound = errors.New("product not found")

// Category enumerates the catalog categories. Unknown upstream values are
// preserved as-is so the card still renders.
type Category string

const (
	CategorySoftSkill  Category = "soft-skill"
	CategoryHardSkill  Category = "hard-skill"
	CategoryOther      Category = "other"
	CategoryAdditional Category = "additional"
	CategoryButton     Category = "button"
)

// Product represents a single catalog item. Price uses NullDecimal: an
// invalid value means the product is priceless and cannot be bought.
type Product struct {
	ID          string
	Title       string
	Description string
	Image       string
	Category    Category
	Price       decimal.NullDecimal
}

// Priceless reports whether the product has no price and therefore is not
// for sale.
func (p Product) Priceless() bool {
	return !p.Price.Valid
}

// PriceOrZero returns the price, or zero for priceless products.
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// List is the catalog as served by the upstream API: the items plus the
// upstream's total item count.
type List struct {
	Items []Product
	Total int
}

// Source supplies the catalog. Implemented by the remote client and by test
// stubs.
type Source interface {
	FetchProducts(ctx context.Context) (List, error)
}
