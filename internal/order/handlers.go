package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-resto/internal/common"
	"github.com/noah-isme/backend-resto/internal/session"
)

// Handler exposes read access to order records.
type Handler struct {
	Store *Store
}

// Get returns a single order. Orders are scoped to the session that created
// them; other sessions get a 404 rather than a 403 to avoid leaking ids.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.ID(r.Context())
	if !ok || sid == "" {
		common.JSONError(w, http.StatusUnauthorized, "NO_SESSION", "session cookie missing", nil)
		return
	}
	id := chi.URLParam(r, "orderID")
	o, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) || (err == nil && o.SessionID != sid) {
		common.JSONError(w, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found", nil)
		return
	}
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// List returns the session's order history, most recent first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.ID(r.Context())
	if !ok || sid == "" {
		common.JSONError(w, http.StatusUnauthorized, "NO_SESSION", "session cookie missing", nil)
		return
	}
	orders, err := h.Store.ListBySession(r.Context(), sid, 20)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"orders": orders})
}
