// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Recognized STORAGE_BACKEND values.
const (
	BackendGitHub   = "github"
	BackendDynamoDB = "dynamodb"
)

// Config holds every recognized setting.
type Config struct {
	HTTPPort string

	// Ledger store backend selection.
	StorageBackend string

	// GitHub-backed document store.
	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string

	// DynamoDB-backed document store.
	DynamoDBTable string

	// SePay transaction feed.
	SePayToken      string
	SePayPollWindow int

	// PayOS merchant API.
	PayOSClientID    string
	PayOSAPIKey      string
	PayOSChecksumKey string
	PayOSReturnURL   string

	// Admin capability token.
	AdminPassword string
	AdminSecret   string

	// Telegram notifications (optional).
	TelegramBotToken string
	TelegramChatID   string

	// Catalog sync feed.
	AppFeedURL string

	// SQS fulfillment queue (optional; inline scheduling when empty).
	SQSQueueURL string
}

// Load reads configuration via viper: .env when present, environment
// variables always winning.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	// A missing .env is fine; the environment carries everything in
	// production.
	_ = v.ReadInConfig()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORAGE_BACKEND", BackendGitHub)
	v.SetDefault("GITHUB_BRANCH", "main")
	v.SetDefault("SEPAY_POLL_WINDOW", 50)

	cfg := &Config{
		HTTPPort:         v.GetString("HTTP_PORT"),
		StorageBackend:   v.GetString("STORAGE_BACKEND"),
		GitHubToken:      v.GetString("GITHUB_TOKEN"),
		GitHubOwner:      v.GetString("GITHUB_OWNER"),
		GitHubRepo:       v.GetString("GITHUB_REPO"),
		GitHubBranch:     v.GetString("GITHUB_BRANCH"),
		DynamoDBTable:    v.GetString("DYNAMODB_TABLE"),
		SePayToken:       v.GetString("SEPAY_API_TOKEN"),
		SePayPollWindow:  v.GetInt("SEPAY_POLL_WINDOW"),
		PayOSClientID:    v.GetString("PAYOS_CLIENT_ID"),
		PayOSAPIKey:      v.GetString("PAYOS_API_KEY"),
		PayOSChecksumKey: v.GetString("PAYOS_CHECKSUM_KEY"),
		PayOSReturnURL:   v.GetString("PAYOS_RETURN_URL"),
		AdminPassword:    v.GetString("ADMIN_PASSWORD"),
		AdminSecret:      v.GetString("ADMIN_SECRET"),
		TelegramBotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   v.GetString("TELEGRAM_ADMIN_ID"),
		AppFeedURL:       v.GetString("APPTESTER_URL"),
		SQSQueueURL:      v.GetString("SQS_QUEUE_URL"),
	}

	switch cfg.StorageBackend {
	case BackendGitHub:
		if cfg.GitHubToken == "" || cfg.GitHubOwner == "" || cfg.GitHubRepo == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN, GITHUB_OWNER and GITHUB_REPO must be set")
		}
	case BackendDynamoDB:
		if cfg.DynamoDBTable == "" {
			return nil, fmt.Errorf("DYNAMODB_TABLE must be set when STORAGE_BACKEND is dynamodb")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if cfg.AdminSecret == "" {
		return nil, fmt.Errorf("ADMIN_SECRET must be set")
	}
	return cfg, nil
}
