package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-resto/internal/cart"
	"github.com/noah-isme/backend-resto/internal/pricing"
)

// Status is the lifecycle state of an order record.
type Status string

// Order lifecycle states.
const (
	StatusCreated  Status = "CREATED"
	StatusPaid     Status = "PAID"
	StatusFailed   Status = "FAILED"
	StatusCanceled Status = "CANCELED"
)

// ErrNotFound indicates no order record exists for the id.
var ErrNotFound = errors.New("order not found")

// Order is the durable record of a checkout attempt, keyed by the gateway
// order id.
type Order struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	Status      Status          `json:"status"`
	Items       []cart.Item     `json:"items"`
	Summary     pricing.Summary `json:"summary"`
	Mode        string          `json:"mode"`
	PromoCode   string          `json:"promoCode,omitempty"`
	AmountPaise int64           `json:"amountPaise"`
	Currency    string          `json:"currency"`
	PaymentID   string          `json:"paymentId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Store persists order records in Redis with a retention TTL, plus a
// per-session index for order history.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func orderKey(id string) string         { return "order:" + id }
func sessionIndexKey(sid string) string { return "orders:" + sid }

// Save writes the order record and appends it to the session index.
func (s *Store) Save(ctx context.Context, o Order) error {
	if s == nil || s.R == nil {
		return errors.New("order store not configured")
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	pipe := s.R.TxPipeline()
	pipe.Set(ctx, orderKey(o.ID), raw, s.TTL)
	pipe.LPush(ctx, sessionIndexKey(o.SessionID), o.ID)
	pipe.Expire(ctx, sessionIndexKey(o.SessionID), s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

// Get fetches an order by id.
func (s *Store) Get(ctx context.Context, id string) (Order, error) {
	if s == nil || s.R == nil {
		return Order{}, errors.New("order store not configured")
	}
	raw, err := s.R.Get(ctx, orderKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("load order: %w", err)
	}
	var o Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return Order{}, fmt.Errorf("decode order: %w", err)
	}
	return o, nil
}

// SetStatus transitions the order's status and records the gateway payment id
// when one is known.
func (s *Store) SetStatus(ctx context.Context, id string, status Status, paymentID string) (Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	o.Status = status
	if paymentID != "" {
		o.PaymentID = paymentID
	}
	o.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(o)
	if err != nil {
		return Order{}, fmt.Errorf("encode order: %w", err)
	}
	if err := s.R.Set(ctx, orderKey(id), raw, redis.KeepTTL).Err(); err != nil {
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

// ListBySession returns the session's orders, most recent first.
func (s *Store) ListBySession(ctx context.Context, sessionID string, limit int64) ([]Order, error) {
	if s == nil || s.R == nil {
		return nil, errors.New("order store not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	ids, err := s.R.LRange(ctx, sessionIndexKey(sessionID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		o, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Record expired before its index entry.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
