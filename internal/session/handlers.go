package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-resto/internal/common"
)

// Handler exposes the contact profile endpoints.
type Handler struct {
	Store *Store
}

// Get returns the stored contact profile for the current session.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := ID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "NO_SESSION", "session required", nil)
		return
	}
	profile, err := h.Store.GetProfile(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			common.JSON(w, http.StatusOK, map[string]any{"data": Profile{}})
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load profile", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": profile})
}

// Put stores the contact profile for the current session.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := ID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "NO_SESSION", "session required", nil)
		return
	}
	var payload Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	payload.Phone = strings.TrimSpace(payload.Phone)
	payload.Address = strings.TrimSpace(payload.Address)
	if err := h.Store.SaveProfile(r.Context(), sessionID, payload); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to save profile", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": payload})
}
