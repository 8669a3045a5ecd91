package dynamodb

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/khoapp/storefront/pkg/models"
	"github.com/khoapp/storefront/pkg/storage"
)

// GetVPNAccounts retrieves the VPN stock ledger.
func (s *Store) GetVPNAccounts(ctx context.Context) ([]models.VPNAccount, storage.Version, error) {
	var accounts []models.VPNAccount
	version, err := s.readDocument(ctx, s.Paths.VPNAccounts, &accounts)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.VPNAccount{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return accounts, version, nil
}

// PutVPNAccounts writes the full VPN stock ledger.
func (s *Store) PutVPNAccounts(ctx context.Context, accounts []models.VPNAccount, expected storage.Version, _ string) (storage.Version, error) {
	if accounts == nil {
		accounts = []models.VPNAccount{}
	}
	return s.writeDocument(ctx, s.Paths.VPNAccounts, accounts, expected)
}

// GetLicenseKeys retrieves the license key ledger.
func (s *Store) GetLicenseKeys(ctx context.Context) ([]models.LicenseKey, storage.Version, error) {
	var keys []models.LicenseKey
	version, err := s.readDocument(ctx, s.Paths.LicenseKeys, &keys)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.LicenseKey{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return keys, version, nil
}

// PutLicenseKeys writes the full license key ledger.
func (s *Store) PutLicenseKeys(ctx context.Context, keys []models.LicenseKey, expected storage.Version, _ string) (storage.Version, error) {
	if keys == nil {
		keys = []models.LicenseKey{}
	}
	return s.writeDocument(ctx, s.Paths.LicenseKeys, keys, expected)
}

// GetAppAssets retrieves the app catalog.
func (s *Store) GetAppAssets(ctx context.Context) ([]models.AppAsset, storage.Version, error) {
	var assets []models.AppAsset
	version, err := s.readDocument(ctx, s.Paths.AppAssets, &assets)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.AppAsset{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return assets, version, nil
}

// PutAppAssets writes the full app catalog.
func (s *Store) PutAppAssets(ctx context.Context, assets []models.AppAsset, expected storage.Version, _ string) (storage.Version, error) {
	if assets == nil {
		assets = []models.AppAsset{}
	}
	return s.writeDocument(ctx, s.Paths.AppAssets, assets, expected)
}

// GetDocument retrieves an arbitrary JSON-array document by path.
func (s *Store) GetDocument(ctx context.Context, path string) ([]json.RawMessage, storage.Version, error) {
	var items []json.RawMessage
	version, err := s.readDocument(ctx, path, &items)
	if err != nil {
		return nil, "", err
	}
	return items, version, nil
}

// PutDocument writes an arbitrary JSON-array document by path.
func (s *Store) PutDocument(ctx context.Context, path string, items []json.RawMessage, expected storage.Version, _ string) (storage.Version, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	return s.writeDocument(ctx, path, items, expected)
}
