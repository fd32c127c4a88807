package cart

import (
	"testing"

	"github.com/noah-isme/backend-resto/internal/promo"
)

func TestAddMergesDuplicateLines(t *testing.T) {
	l := NewLedger()
	l.Add(Item{ID: 1, Name: "Bruschetta", Price: 100, Quantity: 1})
	l.Add(Item{ID: 1, Name: "Bruschetta", Price: 100, Quantity: 2})
	if len(l.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(l.Items))
	}
	if l.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", l.Items[0].Quantity)
	}
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	l := NewLedger()
	l.Add(Item{ID: 2, Name: "Fried Calamari", Price: 200})
	if l.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", l.Items[0].Quantity)
	}
}

func TestDecreaseRemovesLineAtZero(t *testing.T) {
	l := NewLedger()
	l.Add(Item{ID: 1, Price: 100, Quantity: 1})
	if err := l.Decrease(1); err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if !l.Empty() {
		t.Fatalf("expected empty ledger, got %d lines", len(l.Items))
	}
}

func TestDecreaseUnknownLine(t *testing.T) {
	l := NewLedger()
	if err := l.Decrease(42); err != ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemoveDropsWholeLine(t *testing.T) {
	l := NewLedger()
	l.Add(Item{ID: 1, Price: 100, Quantity: 5})
	l.Add(Item{ID: 2, Price: 200, Quantity: 1})
	if err := l.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(l.Items) != 1 || l.Items[0].ID != 2 {
		t.Fatalf("unexpected lines after remove: %+v", l.Items)
	}
}

func TestClearKeepsPromoByDefault(t *testing.T) {
	l := NewLedger()
	l.Add(Item{ID: 1, Price: 100, Quantity: 1})
	l.Promo = promo.State{Applied: true, Code: "WELCOME10", Percent: 10}

	l.Clear(false)
	if !l.Empty() {
		t.Fatal("expected cleared ledger")
	}
	if !l.Promo.Applied {
		t.Fatal("manual clear should keep the promo")
	}

	l.Clear(true)
	if l.Promo.Applied {
		t.Fatal("settle clear should drop the promo")
	}
}

func TestSummaryUsesPromoTerms(t *testing.T) {
	l := NewLedger()
	l.Add(Item{ID: 1, Price: 250, Quantity: 1})

	got := l.Summary(40)
	if got.Total != 290 {
		t.Fatalf("expected total 290, got %d", got.Total)
	}

	l.Promo = promo.State{Applied: true, Code: "FREESHIP", FreeDelivery: true}
	got = l.Summary(40)
	if got.Discount != 0 || got.DeliveryFee != 0 || got.Total != 250 {
		t.Fatalf("unexpected summary with fee waiver: %+v", got)
	}

	l.Promo = promo.State{Applied: true, Code: "WELCOME10", Percent: 10}
	got = l.Summary(40)
	if got.Discount != 25 || got.Total != 265 {
		t.Fatalf("unexpected summary with percent promo: %+v", got)
	}

	l.Mode = ModePickup
	got = l.Summary(40)
	if got.DeliveryFee != 0 || got.Total != 225 {
		t.Fatalf("unexpected pickup summary: %+v", got)
	}
}
