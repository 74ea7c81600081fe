package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/weblarek/storefront/internal/domain/product"
	"github.com/weblarek/storefront/internal/shop"
)

func (h *Handler) basket(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	writeHTML(w, sess.BasketHTML())
}

func (h *Handler) basketAdd(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	if err := sess.AddToBasket(r.PathValue("id")); err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, shop.ErrPriceless):
			http.Error(w, "product is not for sale", http.StatusConflict)
		default:
			renderError(w, r, err)
		}
		return
	}
	writeHTML(w, sess.BasketHTML())
}

func (h *Handler) basketRemove(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	sess.RemoveFromBasket(r.PathValue("id"))
	writeHTML(w, sess.BasketHTML())
}
