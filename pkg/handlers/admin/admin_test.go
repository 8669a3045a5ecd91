package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoapp/storefront/pkg/api"
	"github.com/khoapp/storefront/pkg/auth"
)

func postLogin(t *testing.T, handler *AdminHandler, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(api.LoginRequest{Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	return rr
}

func TestLogin(t *testing.T) {
	handler := NewAdminHandler("hunter2", "s3cret", nil)

	t.Run("Correct Password Sets Capability Cookie", func(t *testing.T) {
		rr := postLogin(t, handler, "hunter2")

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp api.LoginResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, auth.IssueToken("s3cret"), resp.Token)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie := cookies[0]
		assert.Equal(t, auth.CookieName, cookie.Name)
		assert.Equal(t, resp.Token, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Equal(t, 3600, cookie.MaxAge)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		rr := postLogin(t, handler, "hunter3")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("Unconfigured Password Rejects Everything", func(t *testing.T) {
		open := NewAdminHandler("", "s3cret", nil)
		rr := postLogin(t, open, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Garbage Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader([]byte("{")))
		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
