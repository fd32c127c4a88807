package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists cart ledgers in Redis keyed by session.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Load fetches the ledger for the session, returning a fresh empty ledger
// when none exists.
func (s *Store) Load(ctx context.Context, sessionID string) (Ledger, error) {
	if s == nil || s.R == nil {
		return Ledger{}, errors.New("cart store not configured")
	}
	raw, err := s.R.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewLedger(), nil
	}
	if err != nil {
		return Ledger{}, fmt.Errorf("load cart: %w", err)
	}
	var ledger Ledger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return Ledger{}, fmt.Errorf("decode cart: %w", err)
	}
	if ledger.Items == nil {
		ledger.Items = []Item{}
	}
	if ledger.Mode == "" {
		ledger.Mode = ModeDelivery
	}
	return ledger, nil
}

// Save writes the ledger back, refreshing the TTL. An empty ledger with no
// promo is deleted instead so abandoned sessions do not accumulate keys.
func (s *Store) Save(ctx context.Context, sessionID string, ledger Ledger) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	if ledger.Empty() && !ledger.Promo.Applied && ledger.Mode == ModeDelivery {
		return s.Delete(ctx, sessionID)
	}
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.R.Set(ctx, cartKey(sessionID), raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete removes the session's cart key.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	if err := s.R.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
