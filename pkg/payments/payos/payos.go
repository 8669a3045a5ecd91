// Package payos creates PayOS payment requests and models the webhook
// payload PayOS delivers when a transfer settles.
package payos

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultBaseURL = "https://api-merchant.payos.vn"

// Client talks to the PayOS merchant API.
type Client struct {
	HTTPClient  *http.Client
	BaseURL     string
	ClientID    string
	APIKey      string
	ChecksumKey string
}

// New creates a new Client. A nil httpClient gets a default timeout.
func New(httpClient *http.Client, clientID, apiKey, checksumKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		HTTPClient:  httpClient,
		BaseURL:     defaultBaseURL,
		ClientID:    clientID,
		APIKey:      apiKey,
		ChecksumKey: checksumKey,
	}
}

// PaymentRequest is the order submitted to PayOS.
type PaymentRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
	Signature   string `json:"signature"`
}

// PaymentLink is the usable part of a created payment request.
type PaymentLink struct {
	QRCode      string `json:"qrCode"`
	CheckoutURL string `json:"checkoutUrl"`
}

type createResponse struct {
	Code string       `json:"code"`
	Desc string       `json:"desc"`
	Data *PaymentLink `json:"data"`
}

// WebhookPayload is the body PayOS posts when a transfer settles. The
// gateway treats anything but a 200 response as a delivery failure and
// retries, so webhook handlers must acknowledge before acting on it.
type WebhookPayload struct {
	Data    WebhookData `json:"data"`
	Success bool        `json:"success"`
}

// WebhookData carries the settled transfer details.
type WebhookData struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// Sign computes the request signature: HMAC-SHA256 over the key=value query
// string with keys in alphabetical order, hex encoded, keyed by the merchant
// checksum key.
func (c *Client) Sign(req *PaymentRequest) string {
	payload := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		req.Amount, req.CancelURL, req.Description, req.OrderCode, req.ReturnURL)
	mac := hmac.New(sha256.New, []byte(c.ChecksumKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewOrderCode generates a PayOS-compatible numeric order code from the
// current time plus a random suffix. Uniqueness only has to hold inside the
// gateway's order window.
func NewOrderCode() int64 {
	return time.Now().UnixMilli()%1000000*100 + rand.Int63n(100)
}

// CreatePaymentRequest registers an order with PayOS and returns the QR
// payload and hosted checkout URL.
func (c *Client) CreatePaymentRequest(ctx context.Context, amount int64, description, returnURL string) (*PaymentLink, error) {
	req := &PaymentRequest{
		OrderCode:   NewOrderCode(),
		Amount:      amount,
		Description: description,
		ReturnURL:   returnURL,
		CancelURL:   returnURL,
	}
	req.Signature = c.Sign(req)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v2/payment-requests", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("x-client-id", c.ClientID)
	httpReq.Header.Set("x-api-key", c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call PayOS: %w", err)
	}
	defer resp.Body.Close()

	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode PayOS response: %w", err)
	}
	if created.Code != "00" || created.Data == nil {
		return nil, fmt.Errorf("PayOS rejected payment request: %s", created.Desc)
	}
	return created.Data, nil
}

// QRImageDataURI renders an EMVCo QR payload as a PNG data URI the
// storefront can drop into an <img> tag.
func QRImageDataURI(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
