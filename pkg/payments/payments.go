// Package payments matches incoming bank transfers against expected order
// codes and maps transfer amounts to subscription plans.
package payments

import (
	"context"
	"strings"

	"github.com/khoapp/storefront/pkg/models"
)

// DefaultPollWindow is how many recent feed records to inspect per check.
const DefaultPollWindow = 50

// Feed is a read-only source of recent payment records, most recent first.
type Feed interface {
	// ListTransactions retrieves up to limit of the most recent records.
	ListTransactions(ctx context.Context, limit int) ([]models.PaymentRecord, error)
}

// Normalize reduces a transfer memo or order code to uppercase [A-Z0-9].
// Banking apps mangle memos with inserted spacing and punctuation, so all
// matching happens on the normalized form. Normalize is idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FindPayment returns the first record in feed order whose normalized memo
// contains the normalized code as a substring, or nil when none matches.
//
// Containment, not equality: payers retype codes and banks inject
// punctuation. A code that is a substring of another transaction's memo will
// match that record first; this is a known correctness gap of the matching
// scheme, kept deliberately as first-match-wins.
func FindPayment(code string, feed []models.PaymentRecord) *models.PaymentRecord {
	normalized := Normalize(code)
	if normalized == "" {
		return nil
	}
	for i := range feed {
		if strings.Contains(Normalize(feed[i].Content), normalized) {
			return &feed[i]
		}
	}
	return nil
}
