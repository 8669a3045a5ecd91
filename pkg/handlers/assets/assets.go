// Package assets exposes the admin catalog endpoints: uploading entries into
// the per-type catalog documents and triggering a feed sync.
package assets

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/khoapp/storefront/pkg/api"
	"github.com/khoapp/storefront/pkg/auth"
	"github.com/khoapp/storefront/pkg/catalog"
	"github.com/khoapp/storefront/pkg/handlers"
	"github.com/khoapp/storefront/pkg/storage"
)

// Paths of the per-type upload documents. Page content types live under
// pages/data, catalog types under data; the front-end reads them raw so the
// split is part of the published site layout.
var uploadPaths = map[string]string{
	"ipa":   "public/data/ipa.json",
	"dylib": "public/data/dylib.json",
	"conf":  "public/data/conf.json",
	"cert":  "public/pages/data/cert.json",
	"mod":   "public/pages/data/mod.json",
	"sign":  "public/pages/data/sign.json",
}

// CatalogSyncer is the slice of catalog.Syncer the sync endpoint needs.
type CatalogSyncer interface {
	Sync(ctx context.Context, window time.Duration) (*catalog.SyncResult, error)
}

// AssetsHandler holds the dependencies for catalog admin handlers.
type AssetsHandler struct {
	Documents storage.DocumentStore
	Syncer    CatalogSyncer
	Secret    string
	Validate  *validator.Validate
	Logger    *slog.Logger
}

// NewAssetsHandler creates a new AssetsHandler.
func NewAssetsHandler(documents storage.DocumentStore, syncer CatalogSyncer, secret string, logger *slog.Logger) *AssetsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetsHandler{
		Documents: documents,
		Syncer:    syncer,
		Secret:    secret,
		Validate:  validator.New(),
		Logger:    logger,
	}
}

// Upload prepends one entry to the document for its content type. A missing
// document is created; an unparseable one is refused untouched so a bad
// revision can be repaired by hand instead of silently overwritten.
func (h *AssetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req api.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Yêu cầu không hợp lệ")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Loại nội dung không hợp lệ")
		return
	}
	path := uploadPaths[req.Type]

	items, version, err := h.Documents.GetDocument(r.Context(), path)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		items, version = nil, ""
	case errors.Is(err, storage.ErrCorruptDocument):
		h.Logger.Error("refusing upload into corrupt document", slog.String("path", path))
		handlers.WriteError(w, http.StatusInternalServerError, "Dữ liệu hiện tại bị hỏng, không thể ghi đè")
		return
	case err != nil:
		h.Logger.Error("failed to read upload document", slog.String("path", path), slog.Any("error", err))
		handlers.WriteError(w, http.StatusInternalServerError, "Lỗi hệ thống")
		return
	}

	items = append([]json.RawMessage{req.Data}, items...)
	if _, err := h.Documents.PutDocument(r.Context(), path, items, version, "Upload "+req.Type+" entry"); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			handlers.WriteError(w, http.StatusConflict, "Tài liệu vừa thay đổi, vui lòng thử lại")
			return
		}
		h.Logger.Error("failed to write upload document", slog.String("path", path), slog.Any("error", err))
		handlers.WriteError(w, http.StatusInternalServerError, "Lỗi hệ thống")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, api.UploadResponse{Success: true, Path: path})
}

// Sync runs a catalog sync. Callers authenticate with the admin cookie or,
// for the scheduled bot, the botSync flag in the body.
func (h *AssetsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req api.SyncRequest
	if r.Body != nil {
		// An empty body means a default full sync from the console.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if !req.BotSync && !h.hasAdminCookie(r) {
		handlers.WriteError(w, http.StatusUnauthorized, "Chưa đăng nhập hoặc phiên hết hạn")
		return
	}

	window := time.Duration(req.SyncHours) * time.Hour
	result, err := h.Syncer.Sync(r.Context(), window)
	if err != nil {
		h.Logger.Error("catalog sync failed", slog.Any("error", err))
		handlers.WriteError(w, http.StatusInternalServerError, "Đồng bộ thất bại")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, api.SyncResponse{
		Success: true,
		New:     result.New,
		Total:   result.Total,
	})
}

func (h *AssetsHandler) hasAdminCookie(r *http.Request) bool {
	cookie, err := r.Cookie(auth.CookieName)
	return err == nil && auth.VerifyToken(cookie.Value, h.Secret)
}
