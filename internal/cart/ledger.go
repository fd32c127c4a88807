package cart

import (
	"errors"

	"github.com/noah-isme/backend-resto/internal/pricing"
	"github.com/noah-isme/backend-resto/internal/promo"
)

// ErrItemNotFound indicates the referenced line is not in the ledger.
var ErrItemNotFound = errors.New("cart item not found")

// Delivery modes.
const (
	ModeDelivery = "delivery"
	ModePickup   = "pickup"
)

// Item is a single cart line. Price is the unit price captured at add time.
type Item struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Price    pricing.Money `json:"price"`
	Quantity int64         `json:"quantity"`
}

// Ledger is the per-session cart state: lines, the active promo and the
// delivery mode. The zero value plus NewLedger defaults is an empty cart.
type Ledger struct {
	Items []Item      `json:"items"`
	Promo promo.State `json:"promo"`
	Mode  string      `json:"mode"`
}

// NewLedger returns an empty cart with delivery selected.
func NewLedger() Ledger {
	return Ledger{Items: []Item{}, Mode: ModeDelivery}
}

// Add merges the item into the ledger. Adding an item already present
// increments its quantity instead of creating a duplicate line.
func (l *Ledger) Add(it Item) {
	if it.Quantity <= 0 {
		it.Quantity = 1
	}
	for i := range l.Items {
		if l.Items[i].ID == it.ID {
			l.Items[i].Quantity += it.Quantity
			return
		}
	}
	l.Items = append(l.Items, it)
}

// Increase bumps the quantity of an existing line by one.
func (l *Ledger) Increase(id int64) error {
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Items[i].Quantity++
			return nil
		}
	}
	return ErrItemNotFound
}

// Decrease lowers the quantity of a line by one, removing the line entirely
// when it reaches zero.
func (l *Ledger) Decrease(id int64) error {
	for i := range l.Items {
		if l.Items[i].ID != id {
			continue
		}
		l.Items[i].Quantity--
		if l.Items[i].Quantity <= 0 {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
		}
		return nil
	}
	return ErrItemNotFound
}

// Remove deletes the line regardless of quantity.
func (l *Ledger) Remove(id int64) error {
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart lines. The promo survives unless resetPromo is set,
// so a customer who empties the cart by hand keeps their applied code.
func (l *Ledger) Clear(resetPromo bool) {
	l.Items = []Item{}
	if resetPromo {
		l.Promo = promo.State{}
	}
}

// Empty reports whether the ledger holds no lines.
func (l *Ledger) Empty() bool { return len(l.Items) == 0 }

// Lines converts the ledger to pricing input.
func (l *Ledger) Lines() []pricing.Item {
	out := make([]pricing.Item, 0, len(l.Items))
	for _, it := range l.Items {
		out = append(out, pricing.Item{Qty: it.Quantity, UnitPrice: it.Price})
	}
	return out
}

// Summary totals the ledger with the given delivery fee and the active promo terms.
func (l *Ledger) Summary(deliveryFee pricing.Money) pricing.Summary {
	return pricing.Compute(l.Lines(), l.Promo.Percent, deliveryFee, l.Mode == ModeDelivery, l.Promo.FreeDelivery)
}
