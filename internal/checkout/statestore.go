package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Record is the stored checkout phase for a session.
type Record struct {
	State     State     `json:"state"`
	OrderID   string    `json:"orderId,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StateStore persists checkout phase records in Redis.
type StateStore struct {
	R   *redis.Client
	TTL time.Duration
}

func stateKey(sessionID string) string { return "checkout:" + sessionID }

// Load returns the session's checkout record, defaulting to idle.
func (s *StateStore) Load(ctx context.Context, sessionID string) (Record, error) {
	if s == nil || s.R == nil {
		return Record{}, errors.New("checkout state store not configured")
	}
	raw, err := s.R.Get(ctx, stateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{State: StateIdle}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("load checkout state: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode checkout state: %w", err)
	}
	return rec, nil
}

// Transition validates and stores the move to the next phase.
func (s *StateStore) Transition(ctx context.Context, sessionID string, from Record, to State, orderID, reason string) (Record, error) {
	if !CanTransition(from.State, to) {
		return Record{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from.State, to)
	}
	next := Record{State: to, OrderID: orderID, Reason: reason, UpdatedAt: time.Now().UTC()}
	if to == StateIdle {
		// Idle is represented by key absence.
		if err := s.Delete(ctx, sessionID); err != nil {
			return Record{}, err
		}
		return Record{State: StateIdle, UpdatedAt: next.UpdatedAt}, nil
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return Record{}, fmt.Errorf("encode checkout state: %w", err)
	}
	ttl := s.TTL
	if to == StateFailed {
		// Failed is terminal and should outlive the usual checkout window.
		ttl = 0
	}
	if err := s.R.Set(ctx, stateKey(sessionID), raw, ttl).Err(); err != nil {
		return Record{}, fmt.Errorf("save checkout state: %w", err)
	}
	return next, nil
}

// Delete removes the session's checkout record, returning it to idle.
func (s *StateStore) Delete(ctx context.Context, sessionID string) error {
	if s == nil || s.R == nil {
		return errors.New("checkout state store not configured")
	}
	if err := s.R.Del(ctx, stateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete checkout state: %w", err)
	}
	return nil
}
