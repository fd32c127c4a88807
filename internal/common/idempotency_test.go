package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newIdem(t *testing.T) Idem {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Idem{R: client, TTL: time.Minute}
}

func doIdem(r http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/create-order", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplayRejected(t *testing.T) {
	idem := newIdem(t)
	calls := 0
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, http.StatusOK, doIdem(h, "key-1").Code)
	require.Equal(t, 1, calls)

	rec := doIdem(h, "key-1")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "IDEMPOTENT_REPLAY")
	require.Equal(t, 1, calls)

	// A different key is a different request.
	require.Equal(t, http.StatusOK, doIdem(h, "key-2").Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyReleasedOnFailure(t *testing.T) {
	idem := newIdem(t)
	calls := 0
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			JSONError(w, http.StatusBadGateway, "GATEWAY_ERROR", "payment gateway unavailable, try again", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, http.StatusBadGateway, doIdem(h, "key-1").Code)

	// The failed attempt must not lock the key out: the retry runs the handler.
	require.Equal(t, http.StatusOK, doIdem(h, "key-1").Code)
	require.Equal(t, 2, calls)

	// The successful attempt keeps the claim.
	require.Equal(t, http.StatusConflict, doIdem(h, "key-1").Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyNoHeaderPassesThrough(t *testing.T) {
	idem := newIdem(t)
	calls := 0
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, http.StatusOK, doIdem(h, "").Code)
	require.Equal(t, http.StatusOK, doIdem(h, "").Code)
	require.Equal(t, 2, calls)
}
