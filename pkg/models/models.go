package models

import (
	"time"
)

// ItemStatus defines the possible states of an allocatable stock item.
type ItemStatus string

const (
	AVAILABLE ItemStatus = "available"
	SOLD      ItemStatus = "sold"
)

// VPNAccount represents one pre-provisioned VPN credential in the stock
// ledger. Accounts are seeded out-of-band with status "available" and are
// claimed exactly once by the fulfillment workflow; sold accounts are kept
// forever as the sales history.
type VPNAccount struct {
	ID        string     `json:"id" dynamodbav:"id"`
	Status    ItemStatus `json:"status" dynamodbav:"status"`
	OwnerCode string     `json:"owner_content,omitempty" dynamodbav:"owner_content,omitempty"`
	QRImage   string     `json:"qr_image,omitempty" dynamodbav:"qr_image,omitempty"`
	Config    string     `json:"conf,omitempty" dynamodbav:"conf,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
	SoldAt    *time.Time `json:"sold_at,omitempty" dynamodbav:"sold_at,omitempty"`
	ExpiresAt *time.Time `json:"expire_at,omitempty" dynamodbav:"expire_at,omitempty"`
}

// LicenseKey represents one generated app license. The key ledger is
// append-only: keys are never reallocated or deleted.
type LicenseKey struct {
	ID              string     `json:"id" dynamodbav:"id"`
	Key             string     `json:"key" dynamodbav:"key"`
	CreatedAt       time.Time  `json:"createdAt" dynamodbav:"created_at"`
	ExpiresAt       *time.Time `json:"expiresAt" dynamodbav:"expires_at,omitempty"`
	MaxUses         *int       `json:"maxUses" dynamodbav:"max_uses,omitempty"`
	CurrentUses     int        `json:"currentUses" dynamodbav:"current_uses"`
	Active          bool       `json:"active" dynamodbav:"active"`
	CreatedBy       string     `json:"createdBy" dynamodbav:"created_by"`
	TransactionCode string     `json:"transaction_code" dynamodbav:"transaction_code"`
	TransactionID   string     `json:"transaction_id,omitempty" dynamodbav:"transaction_id,omitempty"`
	Plan            string     `json:"package" dynamodbav:"package"`
	Notes           string     `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
}

// AppAsset represents one catalog entry (an app build, tweak or config file)
// published to the storefront.
type AppAsset struct {
	ID          string   `json:"id" dynamodbav:"id"`
	Type        string   `json:"type" dynamodbav:"type"`
	Name        string   `json:"name" dynamodbav:"name"`
	Icon        string   `json:"icon,omitempty" dynamodbav:"icon,omitempty"`
	Description string   `json:"desc,omitempty" dynamodbav:"desc,omitempty"`
	Tags        []string `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	Badge       string   `json:"badge,omitempty" dynamodbav:"badge,omitempty"`
	FileLink    string   `json:"fileLink,omitempty" dynamodbav:"file_link,omitempty"`
	Version     string   `json:"version,omitempty" dynamodbav:"version,omitempty"`
	Developer   string   `json:"developer,omitempty" dynamodbav:"developer,omitempty"`
	Date        string   `json:"date,omitempty" dynamodbav:"date,omitempty"`
	Source      string   `json:"source,omitempty" dynamodbav:"source,omitempty"`
	BundleID    string   `json:"bundleID,omitempty" dynamodbav:"bundle_id,omitempty"`
	LastSync    string   `json:"lastSync,omitempty" dynamodbav:"last_sync,omitempty"`
}

// Asset catalog source markers. Manually uploaded entries survive every
// automatic sync; feed entries are merged by bundle ID and version.
const (
	SourceManual = "manual"
	SourceFeed   = "apptesters"
)

// PaymentRecord is one transaction from an external gateway feed. It is
// read-only to this system.
type PaymentRecord struct {
	TransactionID   string  `json:"id"`
	Content         string  `json:"transaction_content"`
	AmountIn        float64 `json:"amount_in,string"`
	TransactionDate string  `json:"transaction_date"`
	Gateway         string  `json:"bank_brand_name"`
}
