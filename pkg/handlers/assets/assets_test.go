package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoapp/storefront/pkg/api"
	"github.com/khoapp/storefront/pkg/auth"
	"github.com/khoapp/storefront/pkg/catalog"
	"github.com/khoapp/storefront/pkg/storage"
	storage_mocks "github.com/khoapp/storefront/pkg/storage/mocks"
)

// fakeSyncer scripts the sync outcome.
type fakeSyncer struct {
	window time.Duration
	result *catalog.SyncResult
	err    error
}

func (f *fakeSyncer) Sync(_ context.Context, window time.Duration) (*catalog.SyncResult, error) {
	f.window = window
	return f.result, f.err
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestUpload(t *testing.T) {
	entry := json.RawMessage(`{"title":"new cert"}`)

	t.Run("Prepends To Existing Document", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		handler := NewAssetsHandler(mockStore, nil, "s3cret", nil)

		existing := []json.RawMessage{json.RawMessage(`{"title":"old"}`)}
		mockStore.On("GetDocument", mock.Anything, "public/pages/data/cert.json").
			Return(existing, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutDocument", mock.Anything, "public/pages/data/cert.json",
			mock.MatchedBy(func(items []json.RawMessage) bool {
				return len(items) == 2 && string(items[0]) == string(entry)
			}), storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-2"), nil).Once()

		rr := postJSON(t, handler.Upload, api.UploadRequest{Type: "cert", Data: entry})

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.UploadResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "public/pages/data/cert.json", resp.Path)
		mockStore.AssertExpectations(t)
	})

	t.Run("Catalog Types Live Under Data", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		handler := NewAssetsHandler(mockStore, nil, "s3cret", nil)

		mockStore.On("GetDocument", mock.Anything, "public/data/dylib.json").
			Return([]json.RawMessage{}, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutDocument", mock.Anything, "public/data/dylib.json", mock.Anything,
			storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-2"), nil).Once()

		rr := postJSON(t, handler.Upload, api.UploadRequest{Type: "dylib", Data: entry})

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Missing Document Is Created", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		handler := NewAssetsHandler(mockStore, nil, "s3cret", nil)

		mockStore.On("GetDocument", mock.Anything, "public/pages/data/cert.json").
			Return(nil, storage.Version(""), storage.ErrNotFound).Once()
		mockStore.On("PutDocument", mock.Anything, "public/pages/data/cert.json",
			mock.MatchedBy(func(items []json.RawMessage) bool { return len(items) == 1 }),
			storage.Version(""), mock.AnythingOfType("string")).
			Return(storage.Version("sha-1"), nil).Once()

		rr := postJSON(t, handler.Upload, api.UploadRequest{Type: "cert", Data: entry})

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Corrupt Document Refused Without Write", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		handler := NewAssetsHandler(mockStore, nil, "s3cret", nil)

		mockStore.On("GetDocument", mock.Anything, "public/pages/data/cert.json").
			Return(nil, storage.Version(""), storage.ErrCorruptDocument).Once()

		rr := postJSON(t, handler.Upload, api.UploadRequest{Type: "cert", Data: entry})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStore.AssertNotCalled(t, "PutDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Version Conflict Is 409", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		handler := NewAssetsHandler(mockStore, nil, "s3cret", nil)

		mockStore.On("GetDocument", mock.Anything, "public/pages/data/cert.json").
			Return([]json.RawMessage{}, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.Version(""), storage.ErrConflict).Once()

		rr := postJSON(t, handler.Upload, api.UploadRequest{Type: "cert", Data: entry})

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Unknown Type Rejected", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		handler := NewAssetsHandler(mockStore, nil, "s3cret", nil)

		rr := postJSON(t, handler.Upload, api.UploadRequest{Type: "exe", Data: entry})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStore.AssertNotCalled(t, "GetDocument", mock.Anything, mock.Anything)
	})
}

func TestSyncEndpoint(t *testing.T) {
	adminCookie := &http.Cookie{Name: auth.CookieName, Value: auth.IssueToken("s3cret")}

	t.Run("Admin Cookie Runs Sync", func(t *testing.T) {
		syncer := &fakeSyncer{result: &catalog.SyncResult{New: 3, Total: 10}}
		handler := NewAssetsHandler(nil, syncer, "s3cret", nil)

		rr := postJSON(t, handler.Sync, api.SyncRequest{SyncHours: 24}, adminCookie)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.SyncResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 3, resp.New)
		assert.Equal(t, 10, resp.Total)
		assert.Equal(t, 24*time.Hour, syncer.window)
	})

	t.Run("Bot Sync Skips Cookie", func(t *testing.T) {
		syncer := &fakeSyncer{result: &catalog.SyncResult{}}
		handler := NewAssetsHandler(nil, syncer, "s3cret", nil)

		rr := postJSON(t, handler.Sync, api.SyncRequest{BotSync: true})

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("No Auth Rejected", func(t *testing.T) {
		syncer := &fakeSyncer{result: &catalog.SyncResult{}}
		handler := NewAssetsHandler(nil, syncer, "s3cret", nil)

		rr := postJSON(t, handler.Sync, api.SyncRequest{})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Wrong Token Rejected", func(t *testing.T) {
		syncer := &fakeSyncer{result: &catalog.SyncResult{}}
		handler := NewAssetsHandler(nil, syncer, "s3cret", nil)

		bad := &http.Cookie{Name: auth.CookieName, Value: "forged"}
		rr := postJSON(t, handler.Sync, api.SyncRequest{}, bad)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Sync Failure Is Server Error", func(t *testing.T) {
		syncer := &fakeSyncer{err: assert.AnError}
		handler := NewAssetsHandler(nil, syncer, "s3cret", nil)

		rr := postJSON(t, handler.Sync, api.SyncRequest{BotSync: true})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
