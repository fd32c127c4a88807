package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlerMintsCookie(t *testing.T) {
	m := Middleware{CookieName: "resto_session"}
	var captured string
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := ID(r.Context())
		require.True(t, ok)
		captured = id
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, captured)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "resto_session", cookies[0].Name)
	require.Equal(t, captured, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestHandlerReusesExistingCookie(t *testing.T) {
	m := Middleware{CookieName: "resto_session"}
	var captured string
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = ID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "resto_session", Value: "existing-id"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "existing-id", captured)
	require.Empty(t, rec.Result().Cookies())
}
