package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoapp/storefront/pkg/auth"
)

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := AdminOnly("s3cret")(next)

	t.Run("Valid Cookie Passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/assets/upload", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: auth.IssueToken("s3cret")})
		rr := httptest.NewRecorder()

		guarded.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Missing Cookie Rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/assets/upload", nil)
		rr := httptest.NewRecorder()

		guarded.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "NO_AUTH_COOKIE")
	})

	t.Run("Forged Token Rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/assets/upload", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: auth.IssueToken("wrong-secret")})
		rr := httptest.NewRecorder()

		guarded.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
