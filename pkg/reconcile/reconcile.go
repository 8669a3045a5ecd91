// Package reconcile implements the order fulfillment workflow: check the
// ledger for an existing claim, verify the payment, allocate or create the
// purchased item, and commit the ledger with the version from the original
// read. Every step is driven by the buyer's transfer code, so the workflow
// is idempotent under retries and duplicate requests.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/khoapp/storefront/pkg/keygen"
	"github.com/khoapp/storefront/pkg/models"
	"github.com/khoapp/storefront/pkg/payments"
	"github.com/khoapp/storefront/pkg/storage"
)

// Status is the outcome of one fulfillment attempt.
type Status string

const (
	// Fulfilled means an item was allocated or created for this code.
	Fulfilled Status = "fulfilled"
	// AlreadyFulfilled means the code had claimed an item before; the same
	// payload is returned again and the ledger is untouched.
	AlreadyFulfilled Status = "already_fulfilled"
	// Pending means no matching payment was observed yet. Not an error;
	// the caller is expected to poll.
	Pending Status = "pending"
	// OutOfStock means the payment matched but no item is available. Fatal
	// for this request, harmless for the ledger.
	OutOfStock Status = "out_of_stock"
	// AmountUnmatched means the paid amount is below every plan threshold.
	AmountUnmatched Status = "amount_unmatched"
)

// VPNResult is the outcome of a VPN fulfillment.
type VPNResult struct {
	Status  Status
	Account *models.VPNAccount
}

// KeyResult is the outcome of a license key fulfillment.
type KeyResult struct {
	Status Status
	Key    *models.LicenseKey
}

// Ledger document lock names. Same-path requests in one process serialize on
// these; requests from other instances race and rely on the store's version
// check.
const (
	vpnLock     = "vpn"
	licenseLock = "licenses"
)

// Reconciler runs the fulfillment workflow against a ledger store and a
// payment feed.
type Reconciler struct {
	Store      storage.LedgerStore
	Feed       payments.Feed
	Plans      []payments.Plan
	PollWindow int
	// VPNPlanDays is the subscription length for VPN sales whose plan does
	// not carry its own duration.
	VPNPlanDays int
	Logger      *slog.Logger
	// Now is swappable for tests.
	Now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Reconciler with production defaults.
func New(store storage.LedgerStore, feed payments.Feed, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		Store:       store,
		Feed:        feed,
		Plans:       payments.DefaultPlans(),
		PollWindow:  payments.DefaultPollWindow,
		VPNPlanDays: 30,
		Logger:      logger,
		Now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

// pathLock returns the mutex guarding one ledger document. Best-effort:
// it only serializes requests inside this process.
func (r *Reconciler) pathLock(name string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[name]
	if !ok {
		l = &sync.Mutex{}
		r.locks[name] = l
	}
	return l
}

// withConflictRestart runs attempt, and on a stale-version conflict restarts
// it once from a fresh read. Blindly re-sending the stale in-memory array
// would hand the same stock item to two buyers, so a conflict always means
// rerunning the whole read-check-allocate sequence. A second conflict is
// surfaced to the caller.
func withConflictRestart[T any](attempt func() (T, error)) (T, error) {
	result, err := attempt()
	if errors.Is(err, storage.ErrConflict) {
		return attempt()
	}
	return result, err
}

// FulfillVPN runs the full workflow for a VPN purchase: idempotency check,
// payment verification against the feed, stock allocation, commit.
func (r *Reconciler) FulfillVPN(ctx context.Context, content string) (*VPNResult, error) {
	lock := r.pathLock(vpnLock)
	lock.Lock()
	defer lock.Unlock()

	return withConflictRestart(func() (*VPNResult, error) {
		code := payments.Normalize(content)

		accounts, version, err := r.Store.GetVPNAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read VPN ledger: %w", err)
		}
		if existing := findVPNByOwner(accounts, code); existing != nil {
			return &VPNResult{Status: AlreadyFulfilled, Account: existing}, nil
		}

		record, err := r.findPayment(ctx, content)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return &VPNResult{Status: Pending}, nil
		}

		days := r.VPNPlanDays
		if plan, ok := payments.ClassifyAmount(int64(record.AmountIn), r.Plans); ok && plan.DurationDays > 0 {
			days = plan.DurationDays
		}
		return r.allocateVPN(ctx, accounts, version, code, days)
	})
}

// FulfillVPNPaid allocates a VPN account for a payment the gateway has
// already confirmed (webhook path); the feed is not consulted.
func (r *Reconciler) FulfillVPNPaid(ctx context.Context, content string, days int) (*VPNResult, error) {
	lock := r.pathLock(vpnLock)
	lock.Lock()
	defer lock.Unlock()

	if days <= 0 {
		days = r.VPNPlanDays
	}

	return withConflictRestart(func() (*VPNResult, error) {
		code := payments.Normalize(content)

		accounts, version, err := r.Store.GetVPNAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read VPN ledger: %w", err)
		}
		if existing := findVPNByOwner(accounts, code); existing != nil {
			return &VPNResult{Status: AlreadyFulfilled, Account: existing}, nil
		}
		return r.allocateVPN(ctx, accounts, version, code, days)
	})
}

// allocateVPN claims the first available account for code and commits the
// ledger. The caller holds the VPN path lock and has already ruled out an
// existing claim.
func (r *Reconciler) allocateVPN(ctx context.Context, accounts []models.VPNAccount, version storage.Version, code string, days int) (*VPNResult, error) {
	idx := -1
	for i := range accounts {
		if accounts[i].Status == models.AVAILABLE {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &VPNResult{Status: OutOfStock}, nil
	}

	now := r.Now().UTC()
	expires := now.Add(time.Duration(days) * 24 * time.Hour)
	accounts[idx].Status = models.SOLD
	accounts[idx].OwnerCode = code
	accounts[idx].SoldAt = &now
	accounts[idx].ExpiresAt = &expires

	// The caller's deadline must not strand a half-applied write; check
	// before the commit, then let the write run to completion.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Sold VPN account %s to %s", accounts[idx].ID, code)
	if _, err := r.Store.PutVPNAccounts(context.WithoutCancel(ctx), accounts, version, message); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to commit VPN ledger: %w", err)
	}

	r.Logger.Info("vpn account sold",
		slog.String("account_id", accounts[idx].ID),
		slog.String("owner_code", code),
		slog.Time("expires_at", expires))
	return &VPNResult{Status: Fulfilled, Account: &accounts[idx]}, nil
}

// LookupVPN is the read-only polling flavor: it reports the account claimed
// by content, if any, without touching the payment feed or the ledger.
func (r *Reconciler) LookupVPN(ctx context.Context, content string) (*models.VPNAccount, error) {
	accounts, _, err := r.Store.GetVPNAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read VPN ledger: %w", err)
	}
	return findVPNByOwner(accounts, payments.Normalize(content)), nil
}

// FulfillLicense runs the full workflow for a license key purchase,
// verifying the payment against the feed and appending a generated key.
func (r *Reconciler) FulfillLicense(ctx context.Context, content string) (*KeyResult, error) {
	lock := r.pathLock(licenseLock)
	lock.Lock()
	defer lock.Unlock()

	return withConflictRestart(func() (*KeyResult, error) {
		code := payments.Normalize(content)

		keys, version, err := r.Store.GetLicenseKeys(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read key ledger: %w", err)
		}
		if existing := findKeyByCode(keys, code); existing != nil {
			return &KeyResult{Status: AlreadyFulfilled, Key: existing}, nil
		}

		record, err := r.findPayment(ctx, content)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return &KeyResult{Status: Pending}, nil
		}
		// A second identity check: the feed record may already have minted a
		// key under a differently-typed code.
		if existing := findKeyByTransactionID(keys, record.TransactionID); existing != nil {
			return &KeyResult{Status: AlreadyFulfilled, Key: existing}, nil
		}

		plan, ok := payments.ClassifyAmount(int64(record.AmountIn), r.Plans)
		if !ok {
			return &KeyResult{Status: AmountUnmatched}, nil
		}
		return r.appendKey(ctx, keys, version, plan, code, record.TransactionID, "auto_payment")
	})
}

// FulfillLicensePaid mints a license key for a payment the gateway has
// already confirmed (webhook path); the feed is not consulted.
func (r *Reconciler) FulfillLicensePaid(ctx context.Context, content string, amount int64) (*KeyResult, error) {
	lock := r.pathLock(licenseLock)
	lock.Lock()
	defer lock.Unlock()

	return withConflictRestart(func() (*KeyResult, error) {
		code := payments.Normalize(content)

		keys, version, err := r.Store.GetLicenseKeys(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read key ledger: %w", err)
		}
		if existing := findKeyByCode(keys, code); existing != nil {
			return &KeyResult{Status: AlreadyFulfilled, Key: existing}, nil
		}

		plan, ok := payments.ClassifyAmount(amount, r.Plans)
		if !ok {
			return &KeyResult{Status: AmountUnmatched}, nil
		}
		return r.appendKey(ctx, keys, version, plan, code, "", "payos_webhook")
	})
}

// appendKey prepends a freshly generated key to the ledger and commits it.
// The caller holds the license path lock.
func (r *Reconciler) appendKey(ctx context.Context, keys []models.LicenseKey, version storage.Version, plan payments.Plan, code, transactionID, createdBy string) (*KeyResult, error) {
	now := r.Now().UTC()
	key := models.LicenseKey{
		ID:              keygen.NewKeyID(now),
		Key:             keygen.NewKey(),
		CreatedAt:       now,
		Active:          true,
		CreatedBy:       createdBy,
		TransactionCode: code,
		TransactionID:   transactionID,
		Plan:            plan.Name,
		Notes:           planNotes(plan),
	}
	if plan.DurationDays > 0 {
		expires := now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour)
		key.ExpiresAt = &expires
	}
	if plan.MaxUses > 0 {
		uses := plan.MaxUses
		key.MaxUses = &uses
	}

	updated := append([]models.LicenseKey{key}, keys...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Auto-generated key %s (%s)", key.Key, plan.Name)
	if _, err := r.Store.PutLicenseKeys(context.WithoutCancel(ctx), updated, version, message); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to commit key ledger: %w", err)
	}

	r.Logger.Info("license key created",
		slog.String("key_id", key.ID),
		slog.String("plan", plan.Name),
		slog.String("transaction_code", code))
	return &KeyResult{Status: Fulfilled, Key: &key}, nil
}

// ApplyPayment routes a gateway-confirmed payment to the matching ledger by
// code shape: six characters buy an app license, nine characters buy a VPN
// account. Anything else is somebody's unrelated transfer and is ignored.
func (r *Reconciler) ApplyPayment(ctx context.Context, content string, amount int64) error {
	code := payments.Normalize(content)
	switch len(code) {
	case 6:
		result, err := r.FulfillLicensePaid(ctx, code, amount)
		if err != nil {
			return err
		}
		if result.Status == AmountUnmatched {
			r.Logger.Warn("payment below every plan threshold",
				slog.String("content", code), slog.Int64("amount", amount))
		}
		return nil
	case 9:
		result, err := r.FulfillVPNPaid(ctx, code, 0)
		if err != nil {
			return err
		}
		if result.Status == OutOfStock {
			r.Logger.Warn("vpn stock exhausted for paid order", slog.String("content", code))
		}
		return nil
	default:
		r.Logger.Info("ignoring payment with unrecognized code shape", slog.String("content", code))
		return nil
	}
}

// findPayment pulls the recent feed window and matches content against it.
func (r *Reconciler) findPayment(ctx context.Context, content string) (*models.PaymentRecord, error) {
	records, err := r.Feed.ListTransactions(ctx, r.PollWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment feed: %w", err)
	}
	return payments.FindPayment(content, records), nil
}

func findVPNByOwner(accounts []models.VPNAccount, code string) *models.VPNAccount {
	if code == "" {
		return nil
	}
	for i := range accounts {
		if payments.Normalize(accounts[i].OwnerCode) == code {
			return &accounts[i]
		}
	}
	return nil
}

func findKeyByCode(keys []models.LicenseKey, code string) *models.LicenseKey {
	if code == "" {
		return nil
	}
	for i := range keys {
		if payments.Normalize(keys[i].TransactionCode) == code {
			return &keys[i]
		}
	}
	return nil
}

func findKeyByTransactionID(keys []models.LicenseKey, transactionID string) *models.LicenseKey {
	if transactionID == "" {
		return nil
	}
	for i := range keys {
		if keys[i].TransactionID == transactionID {
			return &keys[i]
		}
	}
	return nil
}

func planNotes(plan payments.Plan) string {
	days := "∞ days"
	if plan.DurationDays > 0 {
		days = fmt.Sprintf("%d days", plan.DurationDays)
	}
	uses := "∞ uses"
	if plan.MaxUses > 0 {
		uses = fmt.Sprintf("%d uses", plan.MaxUses)
	}
	return strings.Join([]string{days, uses}, ", ")
}
