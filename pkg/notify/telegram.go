// Package notify pushes admin notifications to Telegram. Notifications are
// best-effort: a delivery failure is logged by the caller and never breaks
// the flow that triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Telegram sends messages through the Bot API.
type Telegram struct {
	Client   *http.Client
	BaseURL  string
	BotToken string
	ChatID   string
}

// NewTelegram creates a new Telegram notifier. A nil client gets a default
// timeout.
func NewTelegram(client *http.Client, botToken, chatID string) *Telegram {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Telegram{Client: client, BaseURL: defaultBaseURL, BotToken: botToken, ChatID: chatID}
}

// Enabled reports whether a bot token is configured.
func (t *Telegram) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// PaymentNotification is the data shown to the admin for one incoming
// transfer.
type PaymentNotification struct {
	Amount  int64
	Content string
	Gateway string
	Date    string
}

// PaymentReceived sends the new-transaction message.
func (t *Telegram) PaymentReceived(ctx context.Context, n PaymentNotification) error {
	text := fmt.Sprintf(
		"🔔 *GIAO DỊCH MỚI!*\n-------------------------\n💰 Số tiền: %d đ\n📝 Nội dung: `%s`\n🏦 Ngân hàng: %s\n⏰ Thời gian: %s\n-------------------------",
		n.Amount, n.Content, n.Gateway, n.Date)
	return t.sendMessage(ctx, text)
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal Telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build Telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Telegram returned status %d", resp.StatusCode)
	}
	return nil
}
