// Package auth implements the admin capability token: a deterministic keyed
// hash of a fixed subject under the admin secret. Possession of the token is
// the entire credential; it encodes no identity, no issuance time and no
// expiry. Revocation means rotating the secret.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// tokenSubject is fixed so the token is stable across restarts: an admin
// stays logged in until the secret changes.
const tokenSubject = "admin-session"

// CookieName is the cookie the admin front-end stores the token under.
const CookieName = "admin_token"

// IssueToken derives the capability token from the secret.
func IssueToken(secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(tokenSubject))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyToken reports whether supplied is the token for secret, comparing in
// constant time.
func VerifyToken(supplied, secret string) bool {
	expected := IssueToken(secret)
	return hmac.Equal([]byte(supplied), []byte(expected))
}

// VerifyPassword compares the supplied admin password in constant time.
func VerifyPassword(supplied, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) == 1
}
