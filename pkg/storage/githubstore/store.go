// Package githubstore persists JSON-array ledger documents as files in a
// GitHub repository, using the Contents API. The blob SHA returned by each
// read doubles as the optimistic-concurrency version token: a write that
// presents a stale SHA is rejected by GitHub and surfaces as
// storage.ErrConflict. Every write is a commit, so the repository history is
// a free audit trail.
package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/khoapp/storefront/pkg/storage"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultRawBaseURL = "https://raw.githubusercontent.com"
)

// Paths locates the well-known ledger documents inside the repository.
type Paths struct {
	VPNAccounts string
	LicenseKeys string
	AppAssets   string
}

// DefaultPaths returns the document layout used by the storefront repo.
func DefaultPaths() Paths {
	return Paths{
		VPNAccounts: "public/data/vpn_data.json",
		LicenseKeys: "public/data/keys.json",
		AppAssets:   "public/data/ipa.json",
	}
}

// Store implements the storage interfaces against the GitHub Contents API.
type Store struct {
	Client     *http.Client
	APIBaseURL string
	RawBaseURL string
	Token      string
	Owner      string
	Repo       string
	Branch     string
	Paths      Paths
}

// New creates a new Store. A nil client gets a sane default timeout.
func New(client *http.Client, token, owner, repo, branch string, paths Paths) *Store {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Store{
		Client:     client,
		APIBaseURL: defaultAPIBaseURL,
		RawBaseURL: defaultRawBaseURL,
		Token:      token,
		Owner:      owner,
		Repo:       repo,
		Branch:     branch,
		Paths:      paths,
	}
}

// Make sure we conform to the interface
var _ storage.LedgerStore = (*Store)(nil)

// contentsFile is the subset of the Contents API file response we use.
type contentsFile struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// putResponse is the subset of the Contents API write response we use.
type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

func (s *Store) contentsURL(filePath string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.APIBaseURL, s.Owner, s.Repo, filePath)
}

func (s *Store) rawURL(filePath string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", s.RawBaseURL, s.Owner, s.Repo, s.Branch, filePath)
}

func (s *Store) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+s.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	return req, nil
}

// readArray fetches the file at filePath and returns its raw bytes and blob
// SHA. A 404 is reported as storage.ErrNotFound so callers can start from an
// empty ledger.
func (s *Store) readArray(ctx context.Context, filePath string) ([]byte, storage.Version, error) {
	req, err := s.newRequest(ctx, http.MethodGet, s.contentsURL(filePath), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build contents request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s from GitHub: %w", filePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", storage.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d reading %s", resp.StatusCode, filePath)
	}

	var file contentsFile
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, "", fmt.Errorf("failed to decode contents response for %s: %w", filePath, err)
	}

	// The Contents API omits the body for large files while still reporting
	// a size; fall back to the raw endpoint rather than treating the file as
	// empty, which would destroy it on the next write.
	if file.Content == "" && file.Size > 0 {
		raw, err := s.fetchRaw(ctx, filePath)
		if err != nil {
			return nil, "", err
		}
		return raw, storage.Version(file.SHA), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64 content of %s: %w", filePath, err)
	}
	return decoded, storage.Version(file.SHA), nil
}

// fetchRaw downloads the file body from raw.githubusercontent.com.
func (s *Store) fetchRaw(ctx context.Context, filePath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.rawURL(filePath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build raw request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw %s: %w", filePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, storage.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching raw %s", resp.StatusCode, filePath)
	}
	return io.ReadAll(resp.Body)
}

// listSHA resolves the blob SHA of filePath via a directory listing. The
// Contents API still returns SHAs for files too large to inline.
func (s *Store) listSHA(ctx context.Context, filePath string) (storage.Version, error) {
	dir := path.Dir(filePath)
	req, err := s.newRequest(ctx, http.MethodGet, s.contentsURL(dir), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build directory request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to list %s on GitHub: %w", dir, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", storage.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d listing %s", resp.StatusCode, dir)
	}

	var entries []contentsFile
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("failed to decode directory listing for %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.Name == path.Base(filePath) {
			return storage.Version(entry.SHA), nil
		}
	}
	return "", storage.ErrNotFound
}

// readArrayLarge fetches the body and the blob SHA of filePath concurrently,
// which the catalog document needs once it outgrows the inline content limit.
func (s *Store) readArrayLarge(ctx context.Context, filePath string) ([]byte, storage.Version, error) {
	type rawResult struct {
		body []byte
		err  error
	}
	type shaResult struct {
		version storage.Version
		err     error
	}

	rawCh := make(chan rawResult, 1)
	shaCh := make(chan shaResult, 1)
	go func() {
		body, err := s.fetchRaw(ctx, filePath)
		rawCh <- rawResult{body: body, err: err}
	}()
	go func() {
		version, err := s.listSHA(ctx, filePath)
		shaCh <- shaResult{version: version, err: err}
	}()

	raw := <-rawCh
	sha := <-shaCh
	if errors.Is(raw.err, storage.ErrNotFound) || errors.Is(sha.err, storage.ErrNotFound) {
		return nil, "", storage.ErrNotFound
	}
	if raw.err != nil {
		return nil, "", raw.err
	}
	if sha.err != nil {
		return nil, "", sha.err
	}
	return raw.body, sha.version, nil
}

// writeArray commits data to filePath. The expected version must be the SHA
// from the most recent read; the zero version creates the file.
func (s *Store) writeArray(ctx context.Context, filePath string, data []byte, expected storage.Version, message string) (storage.Version, error) {
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  s.Branch,
	}
	if expected.Exists() {
		payload["sha"] = string(expected)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal write payload: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPut, s.contentsURL(filePath), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to write %s to GitHub: %w", filePath, err)
	}
	defer resp.Body.Close()

	// GitHub rejects a stale or missing SHA with 409 (and some API versions
	// with 422). Both mean another writer advanced the document.
	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		return "", storage.ErrConflict
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %d writing %s", resp.StatusCode, filePath)
	}

	var put putResponse
	if err := json.NewDecoder(resp.Body).Decode(&put); err != nil {
		return "", fmt.Errorf("failed to decode write response for %s: %w", filePath, err)
	}
	return storage.Version(put.Content.SHA), nil
}

// decodeArray parses raw bytes into dst, mapping parse failures to
// ErrCorruptDocument so callers refuse to overwrite the stored bytes.
func decodeArray(raw []byte, filePath string, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrCorruptDocument, filePath, err)
	}
	return nil
}

// encodeArray renders items the way the documents are stored: a
// pretty-printed bare JSON array.
func encodeArray(items any) ([]byte, error) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}
