package payment

import "context"

// OrderRequest asks the gateway to open a payment order. Amount is in the
// smallest currency unit (paise for INR).
type OrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// GatewayOrder is the gateway's handle for a pending payment, handed to the
// client so it can open the payment widget.
type GatewayOrder struct {
	OrderID     string `json:"orderId"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
	KeyID       string `json:"keyId"`
}

// Provider abstracts the payment gateway so checkout can be tested without
// network calls.
type Provider interface {
	// CreateOrder opens a gateway order for the given amount.
	CreateOrder(ctx context.Context, req OrderRequest) (GatewayOrder, error)
	// VerifySignature checks the signature the gateway produced over the
	// order and payment ids.
	VerifySignature(orderID, paymentID, signature string) bool
}
