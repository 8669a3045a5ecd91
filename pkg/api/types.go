// Package api defines the JSON request and response shapes of the HTTP
// endpoints. Field names are part of the contract with the storefront
// front-end and the payment gateways; change them there too or not at all.
package api

import "encoding/json"

// Order status values returned to the polling front-end.
const (
	StatusSuccess = "success"
	StatusPending = "pending"
	StatusError   = "error"
)

// CheckOrderRequest asks whether the transfer carrying Content has arrived.
// PlanDays is accepted for compatibility with older storefront builds but
// the subscription length is always derived server-side from the paid
// amount.
type CheckOrderRequest struct {
	Content  string `json:"content" validate:"required,min=4"`
	PlanDays int    `json:"planDays,omitempty"`
}

// VPNData is the payload of a fulfilled VPN order.
type VPNData struct {
	QRImage  string `json:"qr_image,omitempty"`
	ConfText string `json:"conf_text,omitempty"`
	Expire   string `json:"expire,omitempty"`
}

// OrderStatusResponse is the polling answer for both order flavors.
type OrderStatusResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	Key     string   `json:"key,omitempty"`
	Package string   `json:"package,omitempty"`
	Data    *VPNData `json:"data,omitempty"`
}

// WebhookAck is the unconditional 200 body for gateway webhooks.
type WebhookAck struct {
	Success bool `json:"success"`
}

// CreatePaymentRequest asks for a PayOS payment link.
type CreatePaymentRequest struct {
	Amount  int64  `json:"amount" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,min=4"`
}

// CreatePaymentResponse carries the QR payload, its rendered image and the
// hosted checkout URL.
type CreatePaymentResponse struct {
	QRCode      string `json:"qrCode"`
	QRImage     string `json:"qrImage,omitempty"`
	CheckoutURL string `json:"checkoutUrl"`
}

// LoginRequest authenticates the admin.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the capability token also set as a cookie.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// UploadRequest appends one entry to a per-type catalog document.
type UploadRequest struct {
	Type string          `json:"type" validate:"required,oneof=ipa dylib conf cert mod sign"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// UploadResponse reports where the entry landed.
type UploadResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message,omitempty"`
}

// SyncRequest triggers a catalog sync. BotSync marks an automated caller
// authenticated out of band.
type SyncRequest struct {
	SyncHours int  `json:"syncHours,omitempty"`
	BotSync   bool `json:"botSync,omitempty"`
}

// SyncResponse summarizes a catalog sync run.
type SyncResponse struct {
	Success bool `json:"success"`
	New     int  `json:"new"`
	Total   int  `json:"total"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
