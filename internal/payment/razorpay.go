package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrGateway wraps failures talking to the payment gateway.
var ErrGateway = errors.New("payment gateway error")

// Razorpay talks to the Razorpay Orders API using basic auth.
type Razorpay struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	HTTP      *http.Client
	Logger    zerolog.Logger
}

// NewRazorpay builds a gateway client with a bounded request timeout.
func NewRazorpay(baseURL, keyID, keySecret string, logger zerolog.Logger) *Razorpay {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &Razorpay{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		KeyID:     keyID,
		KeySecret: keySecret,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
		Logger:    logger,
	}
}

type createOrderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrder opens an order on the gateway for the given amount in paise.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (GatewayOrder, error) {
	if r == nil || r.KeyID == "" || r.KeySecret == "" {
		return GatewayOrder{}, fmt.Errorf("%w: gateway not configured", ErrGateway)
	}
	body, err := json.Marshal(createOrderPayload{
		Amount:   req.AmountPaise,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("encode order request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(r.KeyID, r.KeySecret)

	resp, err := r.HTTP.Do(httpReq)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.Logger.Warn().Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("gateway order creation rejected")
		return GatewayOrder{}, fmt.Errorf("%w: unexpected status %d", ErrGateway, resp.StatusCode)
	}
	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}
	if out.ID == "" {
		return GatewayOrder{}, fmt.Errorf("%w: response missing order id", ErrGateway)
	}
	return GatewayOrder{
		OrderID:     out.ID,
		AmountPaise: out.Amount,
		Currency:    out.Currency,
		KeyID:       r.KeyID,
	}, nil
}

// VerifySignature checks the checkout signature: HMAC-SHA256 over
// "orderID|paymentID" keyed with the API secret, hex encoded.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	if r == nil || r.KeySecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(r.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
