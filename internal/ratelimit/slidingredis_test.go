package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Limiter{Client: client, Prefix: "rl:"}, mr
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := l.Allow(ctx, "k", time.Minute, 3)
		require.NoError(t, err)
		require.True(t, allowed, "hit %d should be allowed", i+1)
	}

	allowed, remaining, _, err := l.Allow(ctx, "k", time.Minute, 3)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, 0, remaining)
}

func TestAllowSeparateKeys(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	_, _, _, err := l.Allow(ctx, "a", time.Minute, 1)
	require.NoError(t, err)
	allowed, _, _, err := l.Allow(ctx, "b", time.Minute, 1)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestAllowUnconfigured(t *testing.T) {
	l := Limiter{}
	allowed, _, _, err := l.Allow(context.Background(), "k", time.Minute, 10)
	require.NoError(t, err)
	require.True(t, allowed)
}
