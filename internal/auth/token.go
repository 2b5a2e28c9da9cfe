package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Session tokens are 32 random bytes, hex encoded.
const tokenBytes = 32

var tokenFormatRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// NewSessionToken generates a fresh opaque session token.
// A new token is minted on every login and signup so that a token handed
// out before authentication can never name an authenticated session.
func NewSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidTokenFormat reports whether s looks like a token this service issued.
// Used to cheaply reject garbage before hitting the session store.
func ValidTokenFormat(s string) bool {
	return tokenFormatRegex.MatchString(s)
}
