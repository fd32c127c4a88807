package menu

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, at time.Time) *Handler {
	t.Helper()
	s := NewScheduler(DefaultWindows(), time.Minute, zerolog.Nop(), WithClock(func() time.Time { return at }))
	return &Handler{Provider: NewStaticProvider(), Scheduler: s}
}

func TestGetMenuLunchOnTuesday(t *testing.T) {
	// Tuesday 12:00.
	h := newTestHandler(t, time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	h.GetMenu(rec, httptest.NewRequest(http.MethodGet, "/api/menu", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp menuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Tuesday", resp.Day)
	require.Len(t, resp.Categories, 4)

	byID := make(map[string]categoryView, len(resp.Categories))
	for _, c := range resp.Categories {
		byID[c.ID] = c
	}

	require.False(t, byID[CategoryStarters].Available)
	require.False(t, byID[CategoryBreakfast].Available)
	require.True(t, byID[CategoryLunch].Available)
	require.False(t, byID[CategoryDinner].Available)

	// Only Tuesday lunch dishes appear.
	names := make([]string, 0)
	for _, it := range byID[CategoryLunch].Items {
		names = append(names, it.Name)
	}
	require.Equal(t, []string{"Turkey Club Sandwich"}, names)

	// Locked categories still list the day's dishes.
	require.NotEmpty(t, byID[CategoryDinner].Items)
}

func TestGetMenuAvailableButEmpty(t *testing.T) {
	// Monday 12:00: lunch window open but no lunch dish served on Mondays.
	h := newTestHandler(t, time.Date(2025, time.June, 9, 12, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	h.GetMenu(rec, httptest.NewRequest(http.MethodGet, "/api/menu", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp menuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, c := range resp.Categories {
		if c.ID != CategoryLunch {
			continue
		}
		require.True(t, c.Available)
		require.Empty(t, c.Items)
		require.NotNil(t, c.Items)
	}
}

func TestGetMenuNotConfigured(t *testing.T) {
	var h *Handler
	rec := httptest.NewRecorder()
	h.GetMenu(rec, httptest.NewRequest(http.MethodGet, "/api/menu", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
