// Package sepay implements the payments.Feed interface against the SePay
// user API, which exposes the merchant's recent bank transactions.
package sepay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/khoapp/storefront/pkg/models"
	"github.com/khoapp/storefront/pkg/payments"
)

const defaultBaseURL = "https://my.sepay.vn"

// Client polls the SePay transaction list.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
}

// New creates a new Client. A nil httpClient gets a default timeout.
func New(httpClient *http.Client, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{HTTPClient: httpClient, BaseURL: defaultBaseURL, Token: token}
}

// Make sure we conform to the interface
var _ payments.Feed = (*Client)(nil)

// WebhookPayload is the push notification SePay sends when a transfer lands.
// Amounts arrive as numbers here, unlike the list API.
type WebhookPayload struct {
	ID              int64   `json:"id"`
	Gateway         string  `json:"gateway"`
	TransactionDate string  `json:"transactionDate"`
	AccountNumber   string  `json:"accountNumber"`
	Content         string  `json:"content"`
	TransferType    string  `json:"transferType"`
	TransferAmount  float64 `json:"transferAmount"`
	Accumulated     float64 `json:"accumulated"`
	ReferenceCode   string  `json:"referenceCode"`
}

type listResponse struct {
	Status       int                    `json:"status"`
	Transactions []models.PaymentRecord `json:"transactions"`
}

// ListTransactions retrieves up to limit of the merchant's most recent
// transactions, newest first.
func (c *Client) ListTransactions(ctx context.Context, limit int) ([]models.PaymentRecord, error) {
	if limit <= 0 {
		limit = payments.DefaultPollWindow
	}
	url := fmt.Sprintf("%s/userapi/transactions/list?limit=%d", c.BaseURL, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build SePay request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call SePay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SePay returned status %d", resp.StatusCode)
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode SePay response: %w", err)
	}
	return list.Transactions, nil
}
