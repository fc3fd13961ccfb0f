package domain

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// DefaultTokenTTL is the access token lifetime when config does not set one.
const DefaultTokenTTL = 24 * time.Hour

// NewToken returns a 22-character URL-safe random token (16 random bytes,
// unpadded base64url).
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
