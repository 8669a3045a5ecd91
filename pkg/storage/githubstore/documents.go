package githubstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/khoapp/storefront/pkg/models"
	"github.com/khoapp/storefront/pkg/storage"
)

// GetVPNAccounts retrieves the VPN stock ledger.
func (s *Store) GetVPNAccounts(ctx context.Context) ([]models.VPNAccount, storage.Version, error) {
	raw, version, err := s.readArray(ctx, s.Paths.VPNAccounts)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.VPNAccount{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var accounts []models.VPNAccount
	if err := decodeArray(raw, s.Paths.VPNAccounts, &accounts); err != nil {
		return nil, "", err
	}
	return accounts, version, nil
}

// PutVPNAccounts commits the full VPN stock ledger.
func (s *Store) PutVPNAccounts(ctx context.Context, accounts []models.VPNAccount, expected storage.Version, message string) (storage.Version, error) {
	if accounts == nil {
		accounts = []models.VPNAccount{}
	}
	data, err := encodeArray(accounts)
	if err != nil {
		return "", err
	}
	return s.writeArray(ctx, s.Paths.VPNAccounts, data, expected, message)
}

// GetLicenseKeys retrieves the license key ledger.
func (s *Store) GetLicenseKeys(ctx context.Context) ([]models.LicenseKey, storage.Version, error) {
	raw, version, err := s.readArray(ctx, s.Paths.LicenseKeys)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.LicenseKey{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var keys []models.LicenseKey
	if err := decodeArray(raw, s.Paths.LicenseKeys, &keys); err != nil {
		return nil, "", err
	}
	return keys, version, nil
}

// PutLicenseKeys commits the full license key ledger.
func (s *Store) PutLicenseKeys(ctx context.Context, keys []models.LicenseKey, expected storage.Version, message string) (storage.Version, error) {
	if keys == nil {
		keys = []models.LicenseKey{}
	}
	data, err := encodeArray(keys)
	if err != nil {
		return "", err
	}
	return s.writeArray(ctx, s.Paths.LicenseKeys, data, expected, message)
}

// GetAppAssets retrieves the app catalog. The catalog routinely outgrows the
// Contents API inline limit, so the body and the blob SHA are fetched
// concurrently from the raw endpoint and the directory listing.
func (s *Store) GetAppAssets(ctx context.Context) ([]models.AppAsset, storage.Version, error) {
	raw, version, err := s.readArrayLarge(ctx, s.Paths.AppAssets)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.AppAsset{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var assets []models.AppAsset
	if err := decodeArray(raw, s.Paths.AppAssets, &assets); err != nil {
		return nil, "", err
	}
	return assets, version, nil
}

// PutAppAssets commits the full app catalog.
func (s *Store) PutAppAssets(ctx context.Context, assets []models.AppAsset, expected storage.Version, message string) (storage.Version, error) {
	if assets == nil {
		assets = []models.AppAsset{}
	}
	data, err := encodeArray(assets)
	if err != nil {
		return "", err
	}
	return s.writeArray(ctx, s.Paths.AppAssets, data, expected, message)
}

// GetDocument retrieves an arbitrary JSON-array document by repository path.
func (s *Store) GetDocument(ctx context.Context, path string) ([]json.RawMessage, storage.Version, error) {
	raw, version, err := s.readArray(ctx, path)
	if err != nil {
		return nil, "", err
	}

	var items []json.RawMessage
	if err := decodeArray(raw, path, &items); err != nil {
		return nil, "", err
	}
	return items, version, nil
}

// PutDocument commits an arbitrary JSON-array document by repository path.
func (s *Store) PutDocument(ctx context.Context, path string, items []json.RawMessage, expected storage.Version, message string) (storage.Version, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	data, err := encodeArray(items)
	if err != nil {
		return "", err
	}
	return s.writeArray(ctx, path, data, expected, message)
}
