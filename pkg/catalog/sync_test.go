package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoapp/storefront/pkg/models"
	"github.com/khoapp/storefront/pkg/storage"
	storage_mocks "github.com/khoapp/storefront/pkg/storage/mocks"
)

// staticFeed returns a fixed slice, standing in for the upstream endpoint.
type staticFeed struct {
	apps []FeedApp
	err  error
}

func (f *staticFeed) FetchApps(context.Context) ([]FeedApp, error) {
	return f.apps, f.err
}

var syncNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestSyncer(store *storage_mocks.LedgerStore, feed FeedFetcher) *Syncer {
	s := NewSyncer(store, feed, nil)
	s.Now = func() time.Time { return syncNow }
	return s
}

func TestSync(t *testing.T) {
	feedApp := FeedApp{
		Name:        "Minecraft",
		BundleID:    "com.mojang.minecraftpe",
		Version:     "1.21",
		VersionDate: "2024-06-09T08:00:00Z",
		DownloadURL: "https://files.example/minecraft.ipa",
	}

	t.Run("New Feed Entry Is Classified And Committed", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		syncer := newTestSyncer(mockStore, &staticFeed{apps: []FeedApp{feedApp}})

		mockStore.On("GetAppAssets", mock.Anything).
			Return([]models.AppAsset{}, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutAppAssets", mock.Anything, mock.MatchedBy(func(assets []models.AppAsset) bool {
			if len(assets) != 1 {
				return false
			}
			a := assets[0]
			return a.ID == "ipa-com.mojang.minecraftpe-1.21" &&
				a.Source == models.SourceFeed &&
				len(a.Tags) == 1 && a.Tags[0] == "game" &&
				a.Description == "Premium unlocked" &&
				a.Developer == "vip"
		}), storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-2"), nil).Once()

		result, err := syncer.Sync(context.Background(), 0)

		require.NoError(t, err)
		assert.Equal(t, 1, result.New)
		assert.Equal(t, 1, result.Total)
		mockStore.AssertExpectations(t)
	})

	t.Run("Known Bundle And Version Is Skipped Without Write", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		syncer := newTestSyncer(mockStore, &staticFeed{apps: []FeedApp{feedApp}})

		existing := models.AppAsset{
			ID: "ipa-com.mojang.minecraftpe-1.21", BundleID: "com.mojang.minecraftpe",
			Version: "1.21", Source: models.SourceFeed, Date: "2024-06-09T08:00:00Z",
		}
		mockStore.On("GetAppAssets", mock.Anything).
			Return([]models.AppAsset{existing}, storage.Version("sha-2"), nil).Once()

		result, err := syncer.Sync(context.Background(), 0)

		require.NoError(t, err)
		assert.Equal(t, 0, result.New)
		assert.Equal(t, 1, result.Total)
		mockStore.AssertNotCalled(t, "PutAppAssets", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Manual Entries Survive A Sync", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		syncer := newTestSyncer(mockStore, &staticFeed{apps: []FeedApp{feedApp}})

		manual := models.AppAsset{ID: "manual-1", Name: "Hand-uploaded", Source: models.SourceManual}
		mockStore.On("GetAppAssets", mock.Anything).
			Return([]models.AppAsset{manual}, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutAppAssets", mock.Anything, mock.MatchedBy(func(assets []models.AppAsset) bool {
			if len(assets) != 2 {
				return false
			}
			// Feed entries sort first, manual rides along at the end.
			return assets[0].Source == models.SourceFeed && assets[1].ID == "manual-1"
		}), storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-2"), nil).Once()

		result, err := syncer.Sync(context.Background(), 0)

		require.NoError(t, err)
		assert.Equal(t, 1, result.New)
		assert.Equal(t, 2, result.Total)
		mockStore.AssertExpectations(t)
	})

	t.Run("Window Filters Stale Entries", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		stale := feedApp
		stale.VersionDate = "2024-01-01T00:00:00Z"
		syncer := newTestSyncer(mockStore, &staticFeed{apps: []FeedApp{stale}})

		mockStore.On("GetAppAssets", mock.Anything).
			Return([]models.AppAsset{}, storage.Version("sha-1"), nil).Once()

		result, err := syncer.Sync(context.Background(), 24*time.Hour)

		require.NoError(t, err)
		assert.Equal(t, 0, result.New)
		mockStore.AssertNotCalled(t, "PutAppAssets", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Feed Failure Reads Nothing", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		syncer := newTestSyncer(mockStore, &staticFeed{err: assert.AnError})

		_, err := syncer.Sync(context.Background(), 0)

		assert.Error(t, err)
		mockStore.AssertNotCalled(t, "GetAppAssets", mock.Anything)
	})
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC), parseDate("2024-06-09T08:00:00Z"))
	assert.Equal(t, time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC), parseDate("2024-06-09T08:00:00"))
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), parseDate("2024-06-09"))
	assert.True(t, parseDate("last tuesday").IsZero())
}
