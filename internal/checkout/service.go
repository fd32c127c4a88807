package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/backend-resto/internal/cart"
	"github.com/noah-isme/backend-resto/internal/events"
	"github.com/noah-isme/backend-resto/internal/obs"
	"github.com/noah-isme/backend-resto/internal/order"
	"github.com/noah-isme/backend-resto/internal/payment"
	"github.com/noah-isme/backend-resto/internal/pricing"
)

// Service drives the two-phase checkout: open a gateway order against the
// authoritative cart total, then verify the gateway's signature before
// settling the cart.
type Service struct {
	Carts    *cart.Service
	Orders   *order.Store
	Provider payment.Provider
	States   *StateStore
	Events   *events.Bus
	Logger   zerolog.Logger
	Currency string
}

func (s *Service) tracer() trace.Tracer {
	return otel.Tracer("checkout")
}

func countOrderCreate(result string) {
	if obs.OrderCreateTotal != nil {
		obs.OrderCreateTotal.WithLabelValues(result).Inc()
	}
}

func countVerify(result string) {
	if obs.PaymentVerifyTotal != nil {
		obs.PaymentVerifyTotal.WithLabelValues(result).Inc()
	}
}

// Status returns the session's current checkout record.
func (s *Service) Status(ctx context.Context, sessionID string) (Record, error) {
	return s.States.Load(ctx, sessionID)
}

// CreateOrder opens a gateway order for the session's cart. The charge amount
// is always recomputed from the stored ledger; client-submitted totals are
// never trusted.
func (s *Service) CreateOrder(ctx context.Context, sessionID string) (payment.GatewayOrder, error) {
	ctx, span := s.tracer().Start(ctx, "checkout.CreateOrder")
	defer span.End()

	rec, err := s.States.Load(ctx, sessionID)
	if err != nil {
		return payment.GatewayOrder{}, err
	}
	switch rec.State {
	case StateFailed:
		return payment.GatewayOrder{}, ErrCheckoutFailed
	case StateCreating, StateAwaitingGateway, StateVerifying:
		return payment.GatewayOrder{}, ErrCheckoutInProgress
	}

	view, err := s.Carts.Get(ctx, sessionID)
	if err != nil {
		return payment.GatewayOrder{}, err
	}
	if len(view.Items) == 0 {
		return payment.GatewayOrder{}, ErrEmptyCart
	}

	rec, err = s.States.Transition(ctx, sessionID, rec, StateCreating, "", "")
	if err != nil {
		return payment.GatewayOrder{}, err
	}

	amount := pricing.Paise(view.Summary.Total)
	span.SetAttributes(
		attribute.Int64("checkout.amount_paise", amount),
		attribute.Int("checkout.lines", len(view.Items)),
	)
	gw, err := s.Provider.CreateOrder(ctx, payment.OrderRequest{
		AmountPaise: amount,
		Currency:    s.Currency,
		Receipt:     "rcpt_" + uuid.NewString(),
		Notes: map[string]string{
			"mode":  view.Mode,
			"promo": view.Promo.Code,
		},
	})
	if err != nil {
		// Gateway failures are retryable, so the session drops back to idle.
		if _, derr := s.States.Transition(ctx, sessionID, rec, StateIdle, "", ""); derr != nil {
			s.Logger.Error().Err(derr).Str("session_id", sessionID).Msg("reset checkout state after gateway failure")
		}
		span.SetStatus(codes.Error, "gateway order creation failed")
		countOrderCreate("gateway_error")
		return payment.GatewayOrder{}, fmt.Errorf("create gateway order: %w", err)
	}

	now := time.Now().UTC()
	if err := s.Orders.Save(ctx, order.Order{
		ID:          gw.OrderID,
		SessionID:   sessionID,
		Status:      order.StatusCreated,
		Items:       view.Items,
		Summary:     view.Summary,
		Mode:        view.Mode,
		PromoCode:   view.Promo.Code,
		AmountPaise: amount,
		Currency:    s.Currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		if _, derr := s.States.Transition(ctx, sessionID, rec, StateIdle, "", ""); derr != nil {
			s.Logger.Error().Err(derr).Str("session_id", sessionID).Msg("reset checkout state after store failure")
		}
		countOrderCreate("store_error")
		return payment.GatewayOrder{}, err
	}

	if _, err := s.States.Transition(ctx, sessionID, rec, StateAwaitingGateway, gw.OrderID, ""); err != nil {
		countOrderCreate("state_error")
		return payment.GatewayOrder{}, err
	}

	s.Events.Emit(ctx, events.TopicOrderCreated, map[string]any{
		"order_id":     gw.OrderID,
		"session_id":   sessionID,
		"amount_paise": amount,
	})
	countOrderCreate("ok")
	s.Logger.Info().
		Str("session_id", sessionID).
		Str("order_id", gw.OrderID).
		Int64("amount_paise", amount).
		Msg("gateway order created")
	return gw, nil
}

// VerifyResult is the outcome of a verification attempt.
type VerifyResult struct {
	Verified bool
	Order    order.Order
}

// VerifyPayment checks the gateway signature for the session's active order.
// A valid signature settles the order and empties the cart. An invalid one
// marks the checkout failed; the session stays failed until support clears it.
func (s *Service) VerifyPayment(ctx context.Context, sessionID, orderID, paymentID, signature string) (VerifyResult, error) {
	ctx, span := s.tracer().Start(ctx, "checkout.VerifyPayment")
	defer span.End()
	span.SetAttributes(attribute.String("checkout.order_id", orderID))

	rec, err := s.States.Load(ctx, sessionID)
	if err != nil {
		return VerifyResult{}, err
	}
	if rec.State != StateAwaitingGateway {
		return VerifyResult{}, ErrNoActiveCheckout
	}
	if rec.OrderID != orderID {
		return VerifyResult{}, ErrOrderMismatch
	}

	rec, err = s.States.Transition(ctx, sessionID, rec, StateVerifying, orderID, "")
	if err != nil {
		return VerifyResult{}, err
	}

	if !s.Provider.VerifySignature(orderID, paymentID, signature) {
		o, serr := s.Orders.SetStatus(ctx, orderID, order.StatusFailed, paymentID)
		if serr != nil {
			s.Logger.Error().Err(serr).Str("order_id", orderID).Msg("mark order failed")
		}
		if _, terr := s.States.Transition(ctx, sessionID, rec, StateFailed, orderID, "signature mismatch"); terr != nil {
			s.Logger.Error().Err(terr).Str("session_id", sessionID).Msg("persist failed checkout state")
		}
		s.Events.Emit(ctx, events.TopicOrderFailed, map[string]any{
			"order_id":   orderID,
			"session_id": sessionID,
			"reason":     "signature mismatch",
		})
		countVerify("mismatch")
		span.SetStatus(codes.Error, "signature mismatch")
		s.Logger.Warn().Str("session_id", sessionID).Str("order_id", orderID).Msg("payment signature mismatch")
		return VerifyResult{Verified: false, Order: o}, nil
	}

	o, err := s.Orders.SetStatus(ctx, orderID, order.StatusPaid, paymentID)
	if err != nil {
		countVerify("store_error")
		return VerifyResult{}, err
	}
	if err := s.Carts.Settle(ctx, sessionID); err != nil {
		s.Logger.Error().Err(err).Str("session_id", sessionID).Msg("settle cart after payment")
	}
	if err := s.States.Delete(ctx, sessionID); err != nil {
		s.Logger.Error().Err(err).Str("session_id", sessionID).Msg("clear checkout state after payment")
	}
	s.Events.Emit(ctx, events.TopicOrderSettled, map[string]any{
		"order_id":   orderID,
		"session_id": sessionID,
		"payment_id": paymentID,
	})
	countVerify("ok")
	s.Logger.Info().Str("session_id", sessionID).Str("order_id", orderID).Str("payment_id", paymentID).Msg("payment verified")
	return VerifyResult{Verified: true, Order: o}, nil
}

// Dismiss handles the customer closing the payment widget without paying. The
// pending order is canceled and the session returns to idle with its cart intact.
func (s *Service) Dismiss(ctx context.Context, sessionID string) error {
	rec, err := s.States.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if rec.State != StateAwaitingGateway {
		return ErrNoActiveCheckout
	}
	if rec.OrderID != "" {
		if _, err := s.Orders.SetStatus(ctx, rec.OrderID, order.StatusCanceled, ""); err != nil && !errors.Is(err, order.ErrNotFound) {
			s.Logger.Error().Err(err).Str("order_id", rec.OrderID).Msg("cancel dismissed order")
		}
	}
	_, err = s.States.Transition(ctx, sessionID, rec, StateIdle, "", "")
	if err != nil {
		return err
	}
	s.Logger.Info().Str("session_id", sessionID).Str("order_id", rec.OrderID).Msg("checkout dismissed")
	return nil
}

// FailGateway handles the gateway reporting a failed payment attempt. The
// order is marked failed but the checkout resets to idle so the customer can
// retry with a fresh order.
func (s *Service) FailGateway(ctx context.Context, sessionID, reason string) error {
	rec, err := s.States.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if rec.State != StateAwaitingGateway {
		return ErrNoActiveCheckout
	}
	if rec.OrderID != "" {
		if _, err := s.Orders.SetStatus(ctx, rec.OrderID, order.StatusFailed, ""); err != nil && !errors.Is(err, order.ErrNotFound) {
			s.Logger.Error().Err(err).Str("order_id", rec.OrderID).Msg("mark order failed after gateway error")
		}
	}
	s.Events.Emit(ctx, events.TopicOrderFailed, map[string]any{
		"order_id":   rec.OrderID,
		"session_id": sessionID,
		"reason":     reason,
	})
	_, err = s.States.Transition(ctx, sessionID, rec, StateIdle, "", "")
	if err != nil {
		return err
	}
	s.Logger.Warn().Str("session_id", sessionID).Str("order_id", rec.OrderID).Str("reason", reason).Msg("gateway payment failed")
	return nil
}
