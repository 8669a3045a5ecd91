// Package catalog keeps the published app catalog in sync with an upstream
// feed: fetch, tag each new entry with the keyword classifier, merge with
// the existing document and commit. Manually curated entries are never
// touched by a sync.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/khoapp/storefront/pkg/classify"
	"github.com/khoapp/storefront/pkg/models"
	"github.com/khoapp/storefront/pkg/storage"
)

// SyncResult summarizes one sync run.
type SyncResult struct {
	New   int
	Total int
}

// Syncer merges the upstream feed into the catalog document.
type Syncer struct {
	Store      storage.AssetStore
	Feed       FeedFetcher
	Classifier classify.Config
	Logger     *slog.Logger
	// Now is swappable for tests.
	Now func() time.Time
}

// NewSyncer creates a Syncer with the production classifier tables.
func NewSyncer(store storage.AssetStore, feed FeedFetcher, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		Store:      store,
		Feed:       feed,
		Classifier: classify.DefaultConfig(),
		Logger:     logger,
		Now:        time.Now,
	}
}

// Sync fetches the feed, converts entries newer than the window into catalog
// assets and commits the merged document. A zero window takes the whole
// feed. Nothing is written when the feed brought no new entries.
func (s *Syncer) Sync(ctx context.Context, window time.Duration) (*SyncResult, error) {
	apps, err := s.Feed.FetchApps(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Now().UTC()
	if window > 0 {
		apps = filterRecent(apps, now.Add(-window))
	}

	current, version, err := s.Store.GetAppAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	// Manual uploads and legacy untagged entries ride along untouched; only
	// the feed-sourced slice is merged.
	var manual, feedOld, other []models.AppAsset
	for _, asset := range current {
		switch asset.Source {
		case models.SourceManual:
			manual = append(manual, asset)
		case models.SourceFeed:
			feedOld = append(feedOld, asset)
		default:
			other = append(other, asset)
		}
	}

	seen := make(map[string]bool, len(feedOld))
	for _, asset := range feedOld {
		seen[assetKey(asset.BundleID, asset.Version)] = true
	}

	var added []models.AppAsset
	for _, app := range apps {
		if seen[assetKey(app.BundleID, app.Version)] {
			continue
		}
		asset := s.convert(app, now)
		seen[assetKey(asset.BundleID, asset.Version)] = true
		added = append(added, asset)
	}

	merged := append(feedOld, added...)
	sort.SliceStable(merged, func(i, j int) bool {
		return parseDate(merged[i].Date).After(parseDate(merged[j].Date))
	})
	final := append(append(merged, manual...), other...)

	if len(added) == 0 {
		return &SyncResult{New: 0, Total: len(final)}, nil
	}

	message := fmt.Sprintf("Catalog sync: +%d apps", len(added))
	if _, err := s.Store.PutAppAssets(ctx, final, version, message); err != nil {
		return nil, fmt.Errorf("failed to commit catalog: %w", err)
	}

	s.Logger.Info("catalog synced",
		slog.Int("new", len(added)),
		slog.Int("total", len(final)))
	return &SyncResult{New: len(added), Total: len(final)}, nil
}

// convert builds a catalog asset from a feed entry, running the classifier
// for the category tag and badge.
func (s *Syncer) convert(app FeedApp, now time.Time) models.AppAsset {
	meta := classify.AppMeta{
		Name:        app.Name,
		BundleID:    app.BundleID,
		Description: app.LocalizedDescription,
	}
	if d := parseDate(app.VersionDate); !d.IsZero() {
		meta.VersionDate = &d
	}

	desc := app.LocalizedDescription
	if desc == "" {
		desc = "Premium unlocked"
	}
	developer := app.DeveloperName
	if developer == "" {
		developer = "vip"
	}

	return models.AppAsset{
		ID:          assetID(app),
		Type:        "ipa",
		Name:        app.Name,
		Icon:        app.IconURL,
		Description: desc,
		Tags:        []string{classify.Classify(meta, s.Classifier)},
		Badge:       classify.DetectBadge(meta, now, s.Classifier),
		FileLink:    app.DownloadURL,
		Version:     app.Version,
		Developer:   developer,
		Date:        app.VersionDate,
		Source:      models.SourceFeed,
		BundleID:    app.BundleID,
		LastSync:    now.Format(time.RFC3339),
	}
}

func assetID(app FeedApp) string {
	base := app.BundleID
	if base == "" {
		base = app.Name
	}
	base = strings.ToLower(strings.Join(strings.Fields(base), "-"))
	return fmt.Sprintf("ipa-%s-%s", base, app.Version)
}

func assetKey(bundleID, version string) string {
	return bundleID + "|" + version
}

func filterRecent(apps []FeedApp, cutoff time.Time) []FeedApp {
	var recent []FeedApp
	for _, app := range apps {
		if d := parseDate(app.VersionDate); !d.IsZero() && !d.Before(cutoff) {
			recent = append(recent, app)
		}
	}
	return recent
}

// parseDate tolerates the date shapes feeds actually emit; a zero time
// means unparseable.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d
		}
	}
	return time.Time{}
}
