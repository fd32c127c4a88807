package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-resto/internal/common"
	"github.com/noah-isme/backend-resto/internal/promo"
	"github.com/noah-isme/backend-resto/internal/session"
)

// Handler exposes cart operations over HTTP.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type addItemRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"required,gt=0"`
	Quantity int64  `json:"quantity" validate:"omitempty,gt=0"`
}

type promoRequest struct {
	Code string `json:"code" validate:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=delivery pickup"`
}

type addItemResponse struct {
	View
	Notification string `json:"notification"`
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := session.ID(r.Context())
	if !ok || id == "" {
		common.JSONError(w, http.StatusUnauthorized, "NO_SESSION", "session cookie missing", nil)
		return "", false
	}
	return id, true
}

func (h *Handler) writeView(w http.ResponseWriter, view View, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, view)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidItem):
		common.JSONError(w, http.StatusBadRequest, "INVALID_ITEM", "cart item id and price must be positive", nil)
	case errors.Is(err, ErrItemNotFound):
		common.JSONError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "cart item not found", nil)
	case errors.Is(err, promo.ErrInvalidCode):
		common.JSONError(w, http.StatusBadRequest, "INVALID_PROMO_CODE", "promo code is not valid", nil)
	case errors.Is(err, promo.ErrAlreadyApplied):
		common.JSONError(w, http.StatusConflict, "PROMO_ALREADY_APPLIED", "promo code already applied", nil)
	case errors.Is(err, ErrInvalidMode):
		common.JSONError(w, http.StatusBadRequest, "INVALID_MODE", "delivery mode must be delivery or pickup", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
	}
}

// Get returns the cart with totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.Service.Get(r.Context(), sid)
	h.writeView(w, view, err)
}

// AddItem adds or merges a line into the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		return
	}
	view, err := h.Service.AddItem(r.Context(), sid, Item{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	// The client flashes this for two seconds and then dismisses it.
	common.JSON(w, http.StatusOK, addItemResponse{View: view, Notification: "item added"})
}

// Increase bumps a line quantity by one.
func (h *Handler) Increase(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.Service.IncreaseQuantity)
}

// Decrease lowers a line quantity by one.
func (h *Handler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.Service.DecreaseQuantity)
}

// Remove deletes a line.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.Service.RemoveItem)
}

func (h *Handler) lineOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, sessionID string, id int64) (View, error)) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	id, err := itemID(r)
	if err != nil || id <= 0 {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ITEM_ID", "item id must be a positive integer", nil)
		return
	}
	view, err := op(r.Context(), sid, id)
	h.writeView(w, view, err)
}

// Clear empties the cart while keeping the promo.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.Service.Clear(r.Context(), sid)
	h.writeView(w, view, err)
}

// ApplyPromo attaches a promo code.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req promoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		return
	}
	view, err := h.Service.ApplyPromo(r.Context(), sid, req.Code)
	h.writeView(w, view, err)
}

// RemovePromo detaches any active promo code.
func (h *Handler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.Service.RemovePromo(r.Context(), sid)
	h.writeView(w, view, err)
}

// SetMode switches between delivery and pickup.
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		return
	}
	view, err := h.Service.SetMode(r.Context(), sid, req.Mode)
	h.writeView(w, view, err)
}

func itemID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
}
