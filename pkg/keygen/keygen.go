// Package keygen generates license key strings and ledger identifiers.
package keygen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	groupCount = 4
	groupLen   = 4
)

// NewKey returns a random key in XXXX-XXXX-XXXX-XXXX form, the format the
// client-side verifier expects.
func NewKey() string {
	groups := make([]string, groupCount)
	for i := range groups {
		var b strings.Builder
		for j := 0; j < groupLen; j++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				// crypto/rand only fails when the platform entropy source is
				// broken; nothing sensible to do but stop.
				panic(err)
			}
			b.WriteByte(alphabet[n.Int64()])
		}
		groups[i] = b.String()
	}
	return strings.Join(groups, "-")
}

// NewKeyID returns a ledger identifier for a generated key. The timestamp
// keeps manual inspection of the ledger chronological; the UUID suffix keeps
// same-second creations distinct.
func NewKeyID(now time.Time) string {
	return fmt.Sprintf("key_%d_%s", now.Unix(), uuid.NewString()[:8])
}
