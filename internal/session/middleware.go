package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Middleware mints an anonymous session cookie and exposes the id on the
// request context. The cookie is the only credential the API relies on; the
// cart snapshot and checkout state are keyed by it.
type Middleware struct {
	CookieName string
	TTL        time.Duration
	Domain     string
	Secure     bool
	SameSite   http.SameSite
}

func (m Middleware) cookieName() string {
	if strings.TrimSpace(m.CookieName) == "" {
		return "resto_session"
	}
	return m.CookieName
}

func (m Middleware) ttl() time.Duration {
	if m.TTL <= 0 {
		return 24 * time.Hour
	}
	return m.TTL
}

// Handler ensures every request carries a session id, minting one when absent.
func (m Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(m.cookieName()); err == nil {
			id = strings.TrimSpace(cookie.Value)
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName(),
				Value:    id,
				Path:     "/",
				Domain:   m.Domain,
				MaxAge:   int(m.ttl().Seconds()),
				HttpOnly: true,
				Secure:   m.Secure,
				SameSite: m.SameSite,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
