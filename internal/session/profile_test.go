package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestProfileStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Store{R: client, TTL: time.Hour}
}

func TestProfileRoundTrip(t *testing.T) {
	store := newTestProfileStore(t)
	ctx := context.Background()

	in := Profile{Name: "Asha", Email: "asha@example.com", Phone: "9999999999", Address: "12 MG Road"}
	require.NoError(t, store.SaveProfile(ctx, "s1", in))

	got, err := store.GetProfile(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, in, got)
}

func TestProfileMissing(t *testing.T) {
	store := newTestProfileStore(t)
	_, err := store.GetProfile(context.Background(), "nope")
	require.ErrorIs(t, err, ErrProfileNotFound)
}
