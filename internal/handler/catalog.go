package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/weblarek/storefront/internal/domain/product"
)

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	html, err := sess.PageHTML()
	if err != nil {
		renderError(w, r, err)
		return
	}
	writeHTML(w, html)
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	writeHTML(w, sess.CatalogHTML())
}

func (h *Handler) productModal(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	html, err := sess.ModalHTML(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		renderError(w, r, err)
		return
	}
	writeHTML(w, html)
}
