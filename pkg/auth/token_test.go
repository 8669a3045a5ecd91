package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueToken(t *testing.T) {
	t.Run("Deterministic For Same Secret", func(t *testing.T) {
		assert.Equal(t, IssueToken("s3cret"), IssueToken("s3cret"))
	})

	t.Run("Differs Across Secrets", func(t *testing.T) {
		assert.NotEqual(t, IssueToken("s3cret"), IssueToken("other"))
	})

	t.Run("Hex Encoded SHA256 Length", func(t *testing.T) {
		assert.Len(t, IssueToken("s3cret"), 64)
	})
}

func TestVerifyToken(t *testing.T) {
	t.Run("Accepts Issued Token", func(t *testing.T) {
		token := IssueToken("s3cret")
		assert.True(t, VerifyToken(token, "s3cret"))
	})

	t.Run("Rejects Token For Other Secret", func(t *testing.T) {
		token := IssueToken("other")
		assert.False(t, VerifyToken(token, "s3cret"))
	})

	t.Run("Rejects Garbage", func(t *testing.T) {
		assert.False(t, VerifyToken("not-a-token", "s3cret"))
		assert.False(t, VerifyToken("", "s3cret"))
	})
}

func TestVerifyPassword(t *testing.T) {
	t.Run("Match", func(t *testing.T) {
		assert.True(t, VerifyPassword("hunter2", "hunter2"))
	})

	t.Run("Mismatch", func(t *testing.T) {
		assert.False(t, VerifyPassword("hunter3", "hunter2"))
	})

	t.Run("Unset Expected Always Fails", func(t *testing.T) {
		// An unconfigured password must not turn into an open door.
		assert.False(t, VerifyPassword("", ""))
		assert.False(t, VerifyPassword("anything", ""))
	})
}
