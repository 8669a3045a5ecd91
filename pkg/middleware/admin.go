package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/khoapp/storefront/pkg/auth"
)

// AdminOnly gates privileged endpoints behind the admin capability cookie.
// The token is a bearer credential: a valid cookie is the entire check.
func AdminOnly(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || !auth.VerifyToken(cookie.Value, secret) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Chưa đăng nhập hoặc phiên hết hạn",
					"code":  "NO_AUTH_COOKIE",
				})
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
