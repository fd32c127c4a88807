package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-resto/internal/common"
	"github.com/noah-isme/backend-resto/internal/payment"
	"github.com/noah-isme/backend-resto/internal/session"
)

// Handler exposes the checkout endpoints consumed by the payment widget flow.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
	Profiles *session.Store
}

type createOrderRequest struct {
	// Amount is advisory: the server recomputes the charge from the stored
	// cart and rejects the request when the client's view has gone stale.
	Amount   int64  `json:"amount" validate:"omitempty,gt=0"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type failGatewayRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := session.ID(r.Context())
	if !ok || id == "" {
		common.JSONError(w, http.StatusUnauthorized, "NO_SESSION", "session cookie missing", nil)
		return "", false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusBadRequest, "EMPTY_CART", "cannot checkout an empty cart", nil)
	case errors.Is(err, ErrCheckoutInProgress):
		common.JSONError(w, http.StatusConflict, "CHECKOUT_IN_PROGRESS", "a checkout is already in progress", nil)
	case errors.Is(err, ErrCheckoutFailed):
		common.JSONError(w, http.StatusConflict, "CHECKOUT_FAILED", "previous payment failed verification, contact support", nil)
	case errors.Is(err, ErrNoActiveCheckout):
		common.JSONError(w, http.StatusConflict, "NO_ACTIVE_CHECKOUT", "no checkout awaiting the gateway", nil)
	case errors.Is(err, ErrOrderMismatch):
		common.JSONError(w, http.StatusConflict, "ORDER_MISMATCH", "order id does not match the active checkout", nil)
	case errors.Is(err, payment.ErrGateway):
		common.JSONError(w, http.StatusBadGateway, "GATEWAY_ERROR", "payment gateway unavailable, try again", nil)
	default:
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
	}
}

type createOrderResponse struct {
	OrderID  string           `json:"orderId"`
	Amount   int64            `json:"amount"`
	Currency string           `json:"currency"`
	KeyID    string           `json:"keyId"`
	Prefill  *session.Profile `json:"prefill,omitempty"`
}

// prefill loads the session's contact profile for the payment widget. A
// missing profile or a store hiccup just means no prefill.
func (h *Handler) prefill(r *http.Request, sessionID string) *session.Profile {
	if h.Profiles == nil {
		return nil
	}
	p, err := h.Profiles.GetProfile(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	return &p
}

// CreateOrder opens a gateway order for the session's cart.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	// Body is optional for compatibility with clients that post their totals.
	var req createOrderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body", nil)
			return
		}
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
			return
		}
	}

	gw, err := h.Service.CreateOrder(r.Context(), sid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if req.Amount != 0 && req.Amount != gw.AmountPaise {
		// The order stays open on the gateway side; the client should
		// refresh its cart and retry against the authoritative total.
		appErr := common.NewAppError("AMOUNT_MISMATCH", "cart total changed, refresh and retry", http.StatusConflict, nil)
		appErr.Details = map[string]any{
			"expected": gw.AmountPaise,
			"got":      req.Amount,
		}
		h.writeError(w, appErr)
		return
	}
	common.JSON(w, http.StatusOK, createOrderResponse{
		OrderID:  gw.OrderID,
		Amount:   gw.AmountPaise,
		Currency: gw.Currency,
		KeyID:    gw.KeyID,
		Prefill:  h.prefill(r, sid),
	})
}

type verifyPaymentResponse struct {
	Verified bool   `json:"verified"`
	OrderID  string `json:"orderId"`
}

// VerifyPayment validates the gateway signature and settles or fails the order.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
		return
	}

	res, err := h.Service.VerifyPayment(r.Context(), sid, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, verifyPaymentResponse{
		Verified: res.Verified,
		OrderID:  req.OrderID,
	})
}

// Dismiss cancels the pending order after the customer closes the widget.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Dismiss(r.Context(), sid); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"state": string(StateIdle)})
}

// FailGateway records a gateway-reported payment failure and resets the checkout.
func (h *Handler) FailGateway(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req failGatewayRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "malformed JSON body", nil)
			return
		}
	}
	if err := h.Service.FailGateway(r.Context(), sid, req.Reason); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"state": string(StateIdle)})
}

// Status reports the session's checkout phase.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.Status(r.Context(), sid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rec)
}
