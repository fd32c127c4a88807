package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-resto/internal/obs"
	"github.com/noah-isme/backend-resto/internal/pricing"
	"github.com/noah-isme/backend-resto/internal/promo"
)

// ErrInvalidMode indicates an unknown delivery mode value.
var ErrInvalidMode = errors.New("invalid delivery mode")

// ErrInvalidItem indicates a cart line with a non-positive id or price.
var ErrInvalidItem = errors.New("invalid cart item")

// View is the cart as returned to clients: lines plus the derived summary.
type View struct {
	Items   []Item          `json:"items"`
	Promo   promo.State     `json:"promo"`
	Mode    string          `json:"mode"`
	Summary pricing.Summary `json:"summary"`
}

// Service owns cart mutations. Every operation loads the session ledger,
// applies the change and writes it back.
type Service struct {
	Store       *Store
	Promos      *promo.Engine
	DeliveryFee pricing.Money
	Logger      zerolog.Logger
}

func (s *Service) view(ledger Ledger) View {
	return View{
		Items:   ledger.Items,
		Promo:   ledger.Promo,
		Mode:    ledger.Mode,
		Summary: ledger.Summary(s.DeliveryFee),
	}
}

func (s *Service) mutate(ctx context.Context, sessionID, op string, fn func(*Ledger) error) (View, error) {
	ledger, err := s.Store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if err := fn(&ledger); err != nil {
		return View{}, err
	}
	if err := s.Store.Save(ctx, sessionID, ledger); err != nil {
		return View{}, err
	}
	if obs.CartMutationsTotal != nil {
		obs.CartMutationsTotal.WithLabelValues(op).Inc()
	}
	s.Logger.Debug().Str("session_id", sessionID).Str("op", op).Int("lines", len(ledger.Items)).Msg("cart updated")
	return s.view(ledger), nil
}

// Get returns the current cart without mutating it.
func (s *Service) Get(ctx context.Context, sessionID string) (View, error) {
	ledger, err := s.Store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return s.view(ledger), nil
}

// AddItem merges the given line into the cart.
func (s *Service) AddItem(ctx context.Context, sessionID string, it Item) (View, error) {
	if it.ID <= 0 || it.Price <= 0 {
		return View{}, fmt.Errorf("%w: id and price must be positive", ErrInvalidItem)
	}
	return s.mutate(ctx, sessionID, "add", func(l *Ledger) error {
		l.Add(it)
		return nil
	})
}

// IncreaseQuantity bumps an existing line by one.
func (s *Service) IncreaseQuantity(ctx context.Context, sessionID string, id int64) (View, error) {
	return s.mutate(ctx, sessionID, "increase", func(l *Ledger) error {
		return l.Increase(id)
	})
}

// DecreaseQuantity lowers a line by one, dropping it at zero.
func (s *Service) DecreaseQuantity(ctx context.Context, sessionID string, id int64) (View, error) {
	return s.mutate(ctx, sessionID, "decrease", func(l *Ledger) error {
		return l.Decrease(id)
	})
}

// RemoveItem deletes the line entirely.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, id int64) (View, error) {
	return s.mutate(ctx, sessionID, "remove", func(l *Ledger) error {
		return l.Remove(id)
	})
}

// Clear empties the cart. The applied promo is kept.
func (s *Service) Clear(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, "clear", func(l *Ledger) error {
		l.Clear(false)
		return nil
	})
}

// ApplyPromo validates and attaches a promo code to the cart.
func (s *Service) ApplyPromo(ctx context.Context, sessionID, code string) (View, error) {
	return s.mutate(ctx, sessionID, "promo_apply", func(l *Ledger) error {
		next, err := s.Promos.Apply(l.Promo, code)
		if err != nil {
			return err
		}
		l.Promo = next
		return nil
	})
}

// RemovePromo detaches any active promo code.
func (s *Service) RemovePromo(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, "promo_remove", func(l *Ledger) error {
		l.Promo = s.Promos.Remove(l.Promo)
		return nil
	})
}

// SetMode switches between delivery and pickup.
func (s *Service) SetMode(ctx context.Context, sessionID, mode string) (View, error) {
	if mode != ModeDelivery && mode != ModePickup {
		return View{}, ErrInvalidMode
	}
	return s.mutate(ctx, sessionID, "mode", func(l *Ledger) error {
		l.Mode = mode
		return nil
	})
}

// Settle empties the cart after a successful payment, clearing the promo too.
func (s *Service) Settle(ctx context.Context, sessionID string) error {
	_, err := s.mutate(ctx, sessionID, "settle", func(l *Ledger) error {
		l.Clear(true)
		l.Mode = ModeDelivery
		return nil
	})
	return err
}
