package shop

import (
	"github.com/shopspring/decimal"

	"github.com/weblarek/storefront/internal/domain/product"
)

// Basket is an insertion-ordered, id-keyed set of products. Membership is by
// product identifier, not by value or pointer, so a catalog reload cannot
// strand items that are visually still in the basket.
type Basket struct {
	ids  []string
	byID map[string]product.Product
}

// NewBasket creates an empty basket.
func NewBasket() *Basket {
	return &Basket{byID: make(map[string]product.Product)}
}

// Contains reports whether the identified product is in the basket.
func (b *Basket) Contains(id string) bool {
	_, ok := b.byID[id]
	return ok
}

// Add puts p into the basket. It reports false when p was already present.
func (b *Basket) Add(p product.Product) bool {
	if b.Contains(p.ID) {
		return false
	}
	b.ids = append(b.ids, p.ID)
	b.byID[p.ID] = p
	return true
}

// Remove drops the identified product. It reports false when the product was
// not present.
func (b *Basket) Remove(id string) bool {
	if !b.Contains(id) {
		return false
	}
	delete(b.byID, id)
	for i, got := range b.ids {
		if got == id {
			b.ids = append(b.ids[:i], b.ids[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of products in the basket.
func (b *Basket) Len() int {
	return len(b.ids)
}

// Items returns the basket contents in insertion order.
func (b *Basket) Items() []product.Product {
	items := make([]product.Product, 0, len(b.ids))
	for _, id := range b.ids {
		items = append(items, b.byID[id])
	}
	return items
}

// IDs returns the product identifiers in insertion order.
func (b *Basket) IDs() []string {
	ids := make([]string, len(b.ids))
	copy(ids, b.ids)
	return ids
}

// Total sums the basket item prices. A priceless item that made it into the
// basket counts as zero; see the state model for the policy that normally
// keeps such items out.
func (b *Basket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, id := range b.ids {
		total = total.Add(b.byID[id].PriceOrZero())
	}
	return total
}

// Clear removes every item.
func (b *Basket) Clear() {
	b.ids = nil
	b.byID = make(map[string]product.Product)
}
