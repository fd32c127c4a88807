package order

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-resto/internal/cart"
	"github.com/noah-isme/backend-resto/internal/pricing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Store{R: client, TTL: 72 * time.Hour}
}

func sampleOrder(id, session string) Order {
	now := time.Now().UTC()
	return Order{
		ID:          id,
		SessionID:   session,
		Status:      StatusCreated,
		Items:       []cart.Item{{ID: 1, Name: "Bruschetta", Price: 250, Quantity: 1}},
		Summary:     pricing.Summary{Subtotal: 250, DeliveryFee: 40, Total: 290},
		Mode:        cart.ModeDelivery,
		AmountPaise: 29000,
		Currency:    "INR",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleOrder("order_1", "s1")))
	got, err := store.Get(ctx, "order_1")
	require.NoError(t, err)
	require.Equal(t, StatusCreated, got.Status)
	require.EqualValues(t, 29000, got.AmountPaise)
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusRecordsPayment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleOrder("order_1", "s1")))

	updated, err := store.SetStatus(ctx, "order_1", StatusPaid, "pay_9")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, updated.Status)
	require.Equal(t, "pay_9", updated.PaymentID)

	got, err := store.Get(ctx, "order_1")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, got.Status)
}

func TestListBySessionOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleOrder("order_1", "s1")))
	require.NoError(t, store.Save(ctx, sampleOrder("order_2", "s1")))
	require.NoError(t, store.Save(ctx, sampleOrder("order_3", "other")))

	got, err := store.ListBySession(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "order_2", got[0].ID)
	require.Equal(t, "order_1", got[1].ID)
}
