package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// ErrProfileNotFound indicates no contact profile is stored for the session.
var ErrProfileNotFound = errors.New("profile not found")

// Profile carries the contact details used to prefill the payment gateway.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Store persists session-scoped contact profiles in Redis.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func (s *Store) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

func profileKey(sessionID string) string {
	return "profile:" + sessionID
}

// SaveProfile stores the contact profile for the session.
func (s *Store) SaveProfile(ctx context.Context, sessionID string, p Profile) error {
	if s == nil || s.R == nil {
		return errors.New("session store not configured")
	}
	encoded, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.R.Set(ctx, profileKey(sessionID), encoded, s.ttl()).Err()
}

// GetProfile loads the contact profile for the session.
func (s *Store) GetProfile(ctx context.Context, sessionID string) (Profile, error) {
	if s == nil || s.R == nil {
		return Profile{}, errors.New("session store not configured")
	}
	raw, err := s.R.Get(ctx, profileKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}
