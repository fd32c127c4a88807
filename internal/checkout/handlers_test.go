package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-resto/internal/session"
)

func newTestServer(t *testing.T) (*chi.Mux, *fixture) {
	t.Helper()
	f := newFixture(t)
	h := &Handler{Service: f.svc, Validate: validator.New(), Profiles: f.profiles}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.WithID(req.Context(), "s1")))
		})
	})
	r.Post("/api/create-order", h.CreateOrder)
	r.Post("/api/verify-payment", h.VerifyPayment)
	r.Post("/api/checkout/dismiss", h.Dismiss)
	r.Post("/api/checkout/fail", h.FailGateway)
	r.Get("/api/checkout", h.Status)
	return r, f
}

func post(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	r, f := newTestServer(t)
	f.seedCart(t, "s1")

	rec := post(t, r, "/api/create-order", `{"amount":26500,"currency":"INR"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp createOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "order_abc", resp.OrderID)
	require.EqualValues(t, 26500, resp.Amount)
	require.Equal(t, "INR", resp.Currency)
	require.Equal(t, "key_test", resp.KeyID)
	require.Nil(t, resp.Prefill)
}

func TestCreateOrderEndpointPrefill(t *testing.T) {
	r, f := newTestServer(t)
	f.seedCart(t, "s1")
	require.NoError(t, f.profiles.SaveProfile(context.Background(), "s1", session.Profile{
		Name:  "Asha",
		Email: "asha@example.com",
		Phone: "+911234567890",
	}))

	rec := post(t, r, "/api/create-order", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp createOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Prefill)
	require.Equal(t, "Asha", resp.Prefill.Name)
	require.Equal(t, "asha@example.com", resp.Prefill.Email)
}

func TestCreateOrderEndpointEmptyBody(t *testing.T) {
	r, f := newTestServer(t)
	f.seedCart(t, "s1")

	rec := post(t, r, "/api/create-order", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateOrderEndpointStaleAmount(t *testing.T) {
	r, f := newTestServer(t)
	f.seedCart(t, "s1")

	rec := post(t, r, "/api/create-order", `{"amount":99900,"currency":"INR"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "AMOUNT_MISMATCH")
}

func TestCreateOrderEndpointEmptyCart(t *testing.T) {
	r, _ := newTestServer(t)
	rec := post(t, r, "/api/create-order", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "EMPTY_CART")
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	r, f := newTestServer(t)
	f.seedCart(t, "s1")
	require.Equal(t, http.StatusOK, post(t, r, "/api/create-order", "").Code)

	rec := post(t, r, "/api/verify-payment", `{"orderId":"order_abc","paymentId":"pay_1","signature":"good-signature"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp verifyPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Verified)
	require.Equal(t, "order_abc", resp.OrderID)
}

func TestVerifyPaymentEndpointMismatch(t *testing.T) {
	r, f := newTestServer(t)
	f.seedCart(t, "s1")
	require.Equal(t, http.StatusOK, post(t, r, "/api/create-order", "").Code)

	rec := post(t, r, "/api/verify-payment", `{"orderId":"order_abc","paymentId":"pay_1","signature":"forged"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp verifyPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Verified)

	// Terminal: a new checkout is refused.
	rec = post(t, r, "/api/create-order", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "CHECKOUT_FAILED")
}

func TestVerifyPaymentEndpointValidation(t *testing.T) {
	r, _ := newTestServer(t)
	rec := post(t, r, "/api/verify-payment", `{"orderId":"order_abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDismissEndpoint(t *testing.T) {
	r, f := newTestServer(t)
	f.seedCart(t, "s1")
	require.Equal(t, http.StatusOK, post(t, r, "/api/create-order", "").Code)

	rec := post(t, r, "/api/checkout/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "IDLE")

	rec = post(t, r, "/api/checkout/dismiss", "")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	r, f := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "IDLE")

	f.seedCart(t, "s1")
	post(t, r, "/api/create-order", "")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkout", nil))
	require.Contains(t, rec.Body.String(), "AWAITING_GATEWAY")
}
