package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// FlashCookieSuffix is appended to the session cookie name to form the cookie
// that identifies a browser's pending flash messages.
const FlashCookieSuffix = "_flash"

// Flash makes sure every request carries a flash key, issuing a cookie when
// the browser does not have one yet.
func Flash(sessionCookie string, secure bool) func(http.Handler) http.Handler {
	name := sessionCookie + FlashCookieSuffix
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if cookie, err := r.Cookie(name); err == nil {
				key = strings.TrimSpace(cookie.Value)
			}
			if _, err := uuid.Parse(key); err != nil {
				key = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    key,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithFlashKey(r.Context(), key)))
		})
	}
}
