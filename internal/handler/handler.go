// Package handler exposes the storefront over HTTP. Handlers are a thin
// translation layer: resolve the visitor's session from a cookie, turn the
// request into a session call, and write back the fragment the session
// produced. All state lives in the session.
package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/weblarek/storefront/internal/session"
)

// CookieName identifies the session cookie.
const CookieName = "larek_session"

// Handler serves the storefront routes.
type Handler struct {
	sessions *session.Store
}

// New creates a Handler over the session store.
func New(sessions *session.Store) *Handler {
	return &Handler{sessions: sessions}
}

// Register mounts all storefront routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.page)
	mux.HandleFunc("GET /fragment/catalog", h.catalog)
	mux.HandleFunc("GET /product/{id}", h.productModal)
	mux.HandleFunc("GET /basket", h.basket)
	mux.HandleFunc("POST /basket/{id}", h.basketAdd)
	mux.HandleFunc("DELETE /basket/{id}", h.basketRemove)
	mux.HandleFunc("GET /order", h.orderForm)
	mux.HandleFunc("POST /order/field", h.orderField)
	mux.HandleFunc("POST /order/submit", h.orderSubmit)
	mux.HandleFunc("POST /order/clear", h.orderClear)
}

// sessionFor resolves the request's session, creating one (and setting the
// cookie) on first contact or after expiry.
func (h *Handler) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if sess, ok := h.sessions.Get(c.Value); ok {
			return sess
		}
	}

	sess := h.sessions.Create(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	zctx.From(r.Context()).Info("Session started", zap.String("session", sess.ID))
	return sess
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// renderError reports a fragment render failure. Render errors are server
// bugs, not user mistakes.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Render failed", zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
