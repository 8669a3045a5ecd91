package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FeedApp is one app entry from the upstream catalog feed.
type FeedApp struct {
	Name                 string `json:"name"`
	BundleID             string `json:"bundleID"`
	Version              string `json:"version"`
	VersionDate          string `json:"versionDate"`
	IconURL              string `json:"iconURL"`
	LocalizedDescription string `json:"localizedDescription"`
	DownloadURL          string `json:"downloadURL"`
	DeveloperName        string `json:"developerName"`
}

// FeedFetcher retrieves the upstream app catalog.
type FeedFetcher interface {
	FetchApps(ctx context.Context) ([]FeedApp, error)
}

// HTTPFeed fetches the catalog from a JSON endpoint of the shape
// {"apps": [...]}.
type HTTPFeed struct {
	Client *http.Client
	URL    string
}

// NewHTTPFeed creates a new HTTPFeed. A nil client gets a default timeout.
func NewHTTPFeed(client *http.Client, url string) *HTTPFeed {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFeed{Client: client, URL: url}
}

// Make sure we conform to the interface
var _ FeedFetcher = (*HTTPFeed)(nil)

type feedResponse struct {
	Apps []FeedApp `json:"apps"`
}

// FetchApps downloads and decodes the upstream catalog.
func (f *HTTPFeed) FetchApps(ctx context.Context) ([]FeedApp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "KhoAppVIP")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch app feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("app feed returned status %d", resp.StatusCode)
	}

	var decoded feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode app feed: %w", err)
	}
	return decoded.Apps, nil
}
