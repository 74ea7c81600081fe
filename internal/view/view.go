// Package view renders the storefront HTML fragments. Renderers are
// stateless: they accept a fully prepared data object and produce markup,
// never touching application state. Interaction attributes on the fragments
// point back at the handler routes, which is where user intent re-enters the
// system.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/product"
	"github.com/weblarek/storefront/internal/shop"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Button labels for the product modal, keyed by basket / price status.
const (
	labelBuy         = "Add to basket"
	labelInBasket    = "Already in basket"
	labelUnavailable = "Unavailable"
)

// PricelessLabel is shown instead of a price for not-for-sale products.
const PricelessLabel = "Priceless"

// Renderer holds the parsed fragment templates.
type Renderer struct {
	t *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Renderer{t: t}, nil
}

// Card is the catalog card view model.
type Card struct {
	ID            string
	Title         string
	Image         string
	Category      product.Category
	CategoryClass string
	Price         string
}

// CatalogData feeds the card grid fragment.
type CatalogData struct {
	Cards []Card
}

// PageData feeds the full page shell.
type PageData struct {
	BasketCount int
	Catalog     CatalogData
}

// ModalData feeds the product detail modal.
type ModalData struct {
	Card
	Description    string
	ButtonLabel    string
	ButtonDisabled bool
}

// BasketItem is one row of the basket list.
type BasketItem struct {
	Index int
	ID    string
	Title string
	Price string
}

// BasketData feeds the basket fragment. An empty Items slice renders the
// empty-state placeholder and a disabled checkout button.
type BasketData struct {
	Items []BasketItem
	Total string
}

// OrderFormData feeds the shipping (address/payment) form.
type OrderFormData struct {
	Address       string
	PaymentOnline bool
	PaymentCash   bool
	Errors        string
	Valid         bool
}

// ContactsFormData feeds the contacts (email/phone) form.
type ContactsFormData struct {
	Email  string
	Phone  string
	Errors string
	Valid  bool
}

// ResultData feeds the post-submission screen for both outcomes. Retry keeps
// the session's basket and draft reachable after a rejected order.
type ResultData struct {
	Title       string
	Description string
	Retry       bool
}

// Page renders the full page shell.
func (r *Renderer) Page(data PageData) (string, error) {
	return r.exec("page", data)
}

// Catalog renders the card grid fragment.
func (r *Renderer) Catalog(data CatalogData) (string, error) {
	return r.exec("catalog", data)
}

// Modal renders the product detail fragment.
func (r *Renderer) Modal(data ModalData) (string, error) {
	return r.exec("modal", data)
}

// Basket renders the basket fragment.
func (r *Renderer) Basket(data BasketData) (string, error) {
	return r.exec("basket", data)
}

// OrderForm renders the shipping form fragment.
func (r *Renderer) OrderForm(data OrderFormData) (string, error) {
	return r.exec("order", data)
}

// ContactsForm renders the contacts form fragment.
func (r *Renderer) ContactsForm(data ContactsFormData) (string, error) {
	return r.exec("contacts", data)
}

// Result renders the submission outcome fragment.
func (r *Renderer) Result(data ResultData) (string, error) {
	return r.exec("success", data)
}

func (r *Renderer) exec(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}
	return buf.String(), nil
}

// NewCard builds the card view model for p.
func NewCard(p product.Product) Card {
	return Card{
		ID:            p.ID,
		Title:         p.Title,
		Image:         p.Image,
		Category:      p.Category,
		CategoryClass: categoryClass(p.Category),
		Price:         FormatPrice(p),
	}
}

// NewModal builds the modal view model for p. The buy button is disabled for
// priceless products and for products already in the basket, with a label
// explaining which.
func NewModal(p product.Product, inBasket bool) ModalData {
	m := ModalData{
		Card:        NewCard(p),
		Description: p.Description,
		ButtonLabel: labelBuy,
	}
	switch {
	case p.Priceless():
		m.ButtonLabel = labelUnavailable
		m.ButtonDisabled = true
	case inBasket:
		m.ButtonLabel = labelInBasket
		m.ButtonDisabled = true
	}
	return m
}

// NewBasket builds the basket view model from the state model.
func NewBasket(state *shop.State) BasketData {
	items := state.BasketItems()
	data := BasketData{Total: FormatTotal(state.TotalPrice())}
	for i, p := range items {
		data.Items = append(data.Items, BasketItem{
			Index: i + 1,
			ID:    p.ID,
			Title: p.Title,
			Price: FormatPrice(p),
		})
	}
	return data
}

// NewOrderForm builds the shipping form view model from a draft and the
// current validation map. Validity here means the shipping group only.
func NewOrderForm(draft order.Draft, errs order.FieldErrors) OrderFormData {
	return OrderFormData{
		Address:       draft.Address,
		PaymentOnline: draft.Payment == order.PaymentOnline,
		PaymentCash:   draft.Payment == order.PaymentCash,
		Errors:        JoinErrors(errs),
		Valid:         errs[order.FieldAddress] == "" && errs[order.FieldPayment] == "",
	}
}

// NewContactsForm builds the contacts form view model from a draft and the
// current validation map. Validity here means the contacts group only.
func NewContactsForm(draft order.Draft, errs order.FieldErrors) ContactsFormData {
	return ContactsFormData{
		Email:  draft.Email,
		Phone:  draft.Phone,
		Errors: JoinErrors(errs),
		Valid:  errs[order.FieldEmail] == "" && errs[order.FieldPhone] == "",
	}
}

// FormatPrice renders a product price for display.
func FormatPrice(p product.Product) string {
	if p.Priceless() {
		return PricelessLabel
	}
	return FormatTotal(p.Price.Decimal)
}

// FormatTotal renders a monetary amount for display.
func FormatTotal(v decimal.Decimal) string {
	return v.String() + " synapses"
}

// JoinErrors flattens a validation map into the single line shown under a
// form. Field order is fixed so the output is stable.
func JoinErrors(errs order.FieldErrors) string {
	var parts []string
	for _, f := range []order.Field{order.FieldEmail, order.FieldPhone, order.FieldAddress, order.FieldPayment} {
		if msg := errs[f]; msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, ", ")
}

func categoryClass(c product.Category) string {
	switch c {
	case product.CategorySoftSkill:
		return "soft"
	case product.CategoryHardSkill:
		return "hard"
	case product.CategoryAdditional:
		return "additional"
	case product.CategoryButton:
		return "button"
	default:
		return "other"
	}
}
