package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/weblarek/storefront/internal/domain/order"
)

func (h *Handler) orderForm(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	html, err := sess.OrderFormHTML()
	if err != nil {
		renderError(w, r, err)
		return
	}
	writeHTML(w, html)
}

func (h *Handler) orderField(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)

	field := order.Field(r.FormValue("field"))
	switch field {
	case order.FieldPayment, order.FieldAddress, order.FieldEmail, order.FieldPhone:
	default:
		http.Error(w, "unknown order field", http.StatusBadRequest)
		return
	}
	// Buttons carry an explicit value; inputs post theirs under the field name.
	value := r.FormValue("value")
	if value == "" {
		value = r.FormValue(string(field))
	}

	html, err := sess.SetOrderField(field, value)
	if err != nil {
		renderError(w, r, err)
		return
	}
	writeHTML(w, html)
}

func (h *Handler) orderSubmit(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	html, err := sess.Submit(r.Context())
	if err != nil {
		// Transport-level failure: session state is untouched, the visitor
		// can simply retry.
		zctx.From(r.Context()).Error("Upstream order submission failed", zap.Error(err))
		http.Error(w, "order service unavailable", http.StatusBadGateway)
		return
	}
	writeHTML(w, html)
}

func (h *Handler) orderClear(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	writeHTML(w, sess.Clear())
}
