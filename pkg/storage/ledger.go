package storage

import (
	"context"
	"encoding/json"

	"github.com/khoapp/storefront/pkg/models"
)

// VPNStore defines the interface for the VPN stock ledger.
type VPNStore interface {
	// GetVPNAccounts retrieves the VPN ledger and its current version.
	// A missing document yields an empty slice and the zero Version.
	GetVPNAccounts(ctx context.Context) ([]models.VPNAccount, Version, error)

	// PutVPNAccounts writes the full VPN ledger. It fails with ErrConflict
	// when expected no longer matches the stored version.
	PutVPNAccounts(ctx context.Context, accounts []models.VPNAccount, expected Version, message string) (Version, error)
}

// LicenseStore defines the interface for the append-only license key ledger.
type LicenseStore interface {
	// GetLicenseKeys retrieves the key ledger and its current version.
	GetLicenseKeys(ctx context.Context) ([]models.LicenseKey, Version, error)

	// PutLicenseKeys writes the full key ledger. It fails with ErrConflict
	// when expected no longer matches the stored version.
	PutLicenseKeys(ctx context.Context, keys []models.LicenseKey, expected Version, message string) (Version, error)
}

// AssetStore defines the interface for the app catalog document.
type AssetStore interface {
	// GetAppAssets retrieves the catalog and its current version.
	GetAppAssets(ctx context.Context) ([]models.AppAsset, Version, error)

	// PutAppAssets writes the full catalog. It fails with ErrConflict when
	// expected no longer matches the stored version.
	PutAppAssets(ctx context.Context, assets []models.AppAsset, expected Version, message string) (Version, error)
}

// DocumentStore defines the interface for arbitrary JSON-array documents,
// addressed by path. It backs the admin upload endpoint, which appends
// opaque entries to per-type documents.
type DocumentStore interface {
	// GetDocument retrieves the array stored at path and its version.
	GetDocument(ctx context.Context, path string) ([]json.RawMessage, Version, error)

	// PutDocument writes the array stored at path. It fails with ErrConflict
	// when expected no longer matches the stored version.
	PutDocument(ctx context.Context, path string, items []json.RawMessage, expected Version, message string) (Version, error)
}
