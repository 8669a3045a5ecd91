package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/khoapp/storefront/pkg/models"
	payments_mocks "github.com/khoapp/storefront/pkg/payments/mocks"
	"github.com/khoapp/storefront/pkg/storage"
	storage_mocks "github.com/khoapp/storefront/pkg/storage/mocks"
)

func newTestReconciler(store *storage_mocks.LedgerStore, feed *payments_mocks.Feed) *Reconciler {
	r := New(store, feed, nil)
	r.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func availableVPN(id string) models.VPNAccount {
	return models.VPNAccount{ID: id, Status: models.AVAILABLE, Config: "conf-" + id, QRImage: "qr-" + id}
}

func TestFulfillVPN(t *testing.T) {
	t.Run("Verified Payment Allocates Stock", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{availableVPN("vpn-1")}, storage.Version("sha-1"), nil).Once()
		mockFeed.On("ListTransactions", mock.Anything, 50).
			Return([]models.PaymentRecord{{TransactionID: "tx1", Content: "CK toi X7K9QJ2", AmountIn: 50000}}, nil).Once()
		mockStore.On("PutVPNAccounts", mock.Anything, mock.MatchedBy(func(accounts []models.VPNAccount) bool {
			return accounts[0].Status == models.SOLD && accounts[0].OwnerCode == "X7K9QJ2"
		}), storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-2"), nil).Once()

		result, err := r.FulfillVPN(context.Background(), "x7k9qj2")

		assert.NoError(t, err)
		assert.Equal(t, Fulfilled, result.Status)
		assert.Equal(t, "vpn-1", result.Account.ID)
		assert.Equal(t, models.SOLD, result.Account.Status)
		mockStore.AssertExpectations(t)
		mockFeed.AssertExpectations(t)
	})

	t.Run("Repeat Request Returns Same Account Untouched", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		sold := availableVPN("vpn-1")
		sold.Status = models.SOLD
		sold.OwnerCode = "X7K9QJ2"
		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{sold}, storage.Version("sha-2"), nil).Once()

		result, err := r.FulfillVPN(context.Background(), "x7k9qj2")

		assert.NoError(t, err)
		assert.Equal(t, AlreadyFulfilled, result.Status)
		assert.Equal(t, "vpn-1", result.Account.ID)
		// No feed call and no write: the claim check short-circuits.
		mockFeed.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
		mockStore.AssertNotCalled(t, "PutVPNAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No Payment Yet Is Pending", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{availableVPN("vpn-1")}, storage.Version("sha-1"), nil).Once()
		mockFeed.On("ListTransactions", mock.Anything, 50).
			Return([]models.PaymentRecord{{TransactionID: "tx9", Content: "unrelated transfer"}}, nil).Once()

		result, err := r.FulfillVPN(context.Background(), "x7k9qj2")

		assert.NoError(t, err)
		assert.Equal(t, Pending, result.Status)
		mockStore.AssertNotCalled(t, "PutVPNAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Paid But No Stock", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		sold := availableVPN("vpn-1")
		sold.Status = models.SOLD
		sold.OwnerCode = "SOMEONEELSE1"
		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{sold}, storage.Version("sha-1"), nil).Once()
		mockFeed.On("ListTransactions", mock.Anything, 50).
			Return([]models.PaymentRecord{{TransactionID: "tx1", Content: "CK toi X7K9QJ2", AmountIn: 50000}}, nil).Once()

		result, err := r.FulfillVPN(context.Background(), "x7k9qj2")

		assert.NoError(t, err)
		assert.Equal(t, OutOfStock, result.Status)
		mockStore.AssertNotCalled(t, "PutVPNAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Conflict Restarts From Fresh Read", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		feed := []models.PaymentRecord{{TransactionID: "tx1", Content: "CK toi X7K9QJ2", AmountIn: 50000}}
		mockFeed.On("ListTransactions", mock.Anything, 50).Return(feed, nil).Twice()

		// First attempt reads sha-1, loses the race.
		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{availableVPN("vpn-1"), availableVPN("vpn-2")}, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutVPNAccounts", mock.Anything, mock.Anything, storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version(""), storage.ErrConflict).Once()

		// Restart reads the advanced revision, where vpn-1 went to the winner.
		winner := availableVPN("vpn-1")
		winner.Status = models.SOLD
		winner.OwnerCode = "OTHER9CODE"
		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{winner, availableVPN("vpn-2")}, storage.Version("sha-2"), nil).Once()
		mockStore.On("PutVPNAccounts", mock.Anything, mock.Anything, storage.Version("sha-2"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-3"), nil).Once()

		result, err := r.FulfillVPN(context.Background(), "x7k9qj2")

		assert.NoError(t, err)
		assert.Equal(t, Fulfilled, result.Status)
		assert.Equal(t, "vpn-2", result.Account.ID)
		mockStore.AssertExpectations(t)
	})

	t.Run("Second Conflict Surfaces", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		feed := []models.PaymentRecord{{TransactionID: "tx1", Content: "CK toi X7K9QJ2", AmountIn: 50000}}
		mockFeed.On("ListTransactions", mock.Anything, 50).Return(feed, nil).Twice()
		// Each read returns its own fresh slice, as a real store would; a
		// shared instance would leak the first attempt's in-place mutation
		// into the restarted read.
		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{availableVPN("vpn-1")}, storage.Version("sha-1"), nil).Once()
		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{availableVPN("vpn-1")}, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutVPNAccounts", mock.Anything, mock.Anything, storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version(""), storage.ErrConflict).Twice()

		_, err := r.FulfillVPN(context.Background(), "x7k9qj2")

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockStore.AssertExpectations(t)
	})

	t.Run("Corrupt Ledger Refuses To Write", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetVPNAccounts", mock.Anything).
			Return(nil, storage.Version(""), storage.ErrCorruptDocument).Once()

		_, err := r.FulfillVPN(context.Background(), "x7k9qj2")

		assert.ErrorIs(t, err, storage.ErrCorruptDocument)
		mockStore.AssertNotCalled(t, "PutVPNAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFulfillLicense(t *testing.T) {
	t.Run("Verified Payment Mints Key", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetLicenseKeys", mock.Anything).
			Return([]models.LicenseKey{}, storage.Version("sha-1"), nil).Once()
		mockFeed.On("ListTransactions", mock.Anything, 50).
			Return([]models.PaymentRecord{{TransactionID: "tx1", Content: "thanh toan AB12CD", AmountIn: 199000}}, nil).Once()
		mockStore.On("PutLicenseKeys", mock.Anything, mock.MatchedBy(func(keys []models.LicenseKey) bool {
			return len(keys) == 1 && keys[0].TransactionCode == "AB12CD" && keys[0].Plan == "VIP 1 Năm"
		}), storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-2"), nil).Once()

		result, err := r.FulfillLicense(context.Background(), "ab 12 cd")

		assert.NoError(t, err)
		assert.Equal(t, Fulfilled, result.Status)
		assert.True(t, result.Key.Active)
		assert.Len(t, result.Key.Key, 19)
		assert.NotNil(t, result.Key.ExpiresAt)
		mockStore.AssertExpectations(t)
	})

	t.Run("Existing Code Returns Same Key", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		existing := models.LicenseKey{ID: "key_1", Key: "AAAA-BBBB-CCCC-DDDD", TransactionCode: "AB12CD", Plan: "VIP 1 Năm"}
		mockStore.On("GetLicenseKeys", mock.Anything).
			Return([]models.LicenseKey{existing}, storage.Version("sha-2"), nil).Once()

		result, err := r.FulfillLicense(context.Background(), "AB12CD")

		assert.NoError(t, err)
		assert.Equal(t, AlreadyFulfilled, result.Status)
		assert.Equal(t, "AAAA-BBBB-CCCC-DDDD", result.Key.Key)
		mockFeed.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
		mockStore.AssertNotCalled(t, "PutLicenseKeys", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Same Feed Transaction Already Minted", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		existing := models.LicenseKey{ID: "key_1", Key: "AAAA-BBBB-CCCC-DDDD", TransactionCode: "OLDCODE", TransactionID: "tx1"}
		mockStore.On("GetLicenseKeys", mock.Anything).
			Return([]models.LicenseKey{existing}, storage.Version("sha-2"), nil).Once()
		mockFeed.On("ListTransactions", mock.Anything, 50).
			Return([]models.PaymentRecord{{TransactionID: "tx1", Content: "memo with AB12CD and OLDCODE", AmountIn: 199000}}, nil).Once()

		result, err := r.FulfillLicense(context.Background(), "AB12CD")

		assert.NoError(t, err)
		assert.Equal(t, AlreadyFulfilled, result.Status)
		mockStore.AssertNotCalled(t, "PutLicenseKeys", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Amount Below Every Plan", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetLicenseKeys", mock.Anything).
			Return([]models.LicenseKey{}, storage.Version("sha-1"), nil).Once()
		mockFeed.On("ListTransactions", mock.Anything, 50).
			Return([]models.PaymentRecord{{TransactionID: "tx1", Content: "AB12CD", AmountIn: 1000}}, nil).Once()

		result, err := r.FulfillLicense(context.Background(), "AB12CD")

		assert.NoError(t, err)
		assert.Equal(t, AmountUnmatched, result.Status)
		mockStore.AssertNotCalled(t, "PutLicenseKeys", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Feed Failure Propagates Without Write", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetLicenseKeys", mock.Anything).
			Return([]models.LicenseKey{}, storage.Version("sha-1"), nil).Once()
		mockFeed.On("ListTransactions", mock.Anything, 50).
			Return(nil, errors.New("sepay down")).Once()

		_, err := r.FulfillLicense(context.Background(), "AB12CD")

		assert.Error(t, err)
		mockStore.AssertNotCalled(t, "PutLicenseKeys", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestApplyPayment(t *testing.T) {
	t.Run("Six Char Code Buys License", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetLicenseKeys", mock.Anything).
			Return([]models.LicenseKey{}, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutLicenseKeys", mock.Anything, mock.MatchedBy(func(keys []models.LicenseKey) bool {
			return len(keys) == 1 && keys[0].TransactionCode == "AB12CD" && keys[0].CreatedBy == "payos_webhook"
		}), storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-2"), nil).Once()

		err := r.ApplyPayment(context.Background(), "ab 12 cd", 199000)

		assert.NoError(t, err)
		// Gateway-confirmed payments never consult the feed.
		mockFeed.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
		mockStore.AssertExpectations(t)
	})

	t.Run("Nine Char Code Buys VPN", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{availableVPN("vpn-1")}, storage.Version("sha-1"), nil).Once()
		mockStore.On("PutVPNAccounts", mock.Anything, mock.MatchedBy(func(accounts []models.VPNAccount) bool {
			return accounts[0].OwnerCode == "VPN123456"
		}), storage.Version("sha-1"), mock.AnythingOfType("string")).
			Return(storage.Version("sha-2"), nil).Once()

		err := r.ApplyPayment(context.Background(), "vpn123456", 50000)

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("Other Shapes Ignored", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		err := r.ApplyPayment(context.Background(), "somebody's rent transfer", 5000000)

		assert.NoError(t, err)
		mockStore.AssertNotCalled(t, "GetLicenseKeys", mock.Anything)
		mockStore.AssertNotCalled(t, "GetVPNAccounts", mock.Anything)
	})
}

func TestLookupVPN(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		sold := availableVPN("vpn-1")
		sold.Status = models.SOLD
		sold.OwnerCode = "X7K9QJ2"
		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{sold}, storage.Version("sha-1"), nil).Once()

		account, err := r.LookupVPN(context.Background(), "x7k9qj2")

		assert.NoError(t, err)
		assert.NotNil(t, account)
		assert.Equal(t, "vpn-1", account.ID)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStore := new(storage_mocks.LedgerStore)
		mockFeed := new(payments_mocks.Feed)
		r := newTestReconciler(mockStore, mockFeed)

		mockStore.On("GetVPNAccounts", mock.Anything).
			Return([]models.VPNAccount{availableVPN("vpn-1")}, storage.Version("sha-1"), nil).Once()

		account, err := r.LookupVPN(context.Background(), "x7k9qj2")

		assert.NoError(t, err)
		assert.Nil(t, account)
	})
}
