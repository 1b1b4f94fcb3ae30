package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// NewID returns a fresh ULID string, used for client, session, and record IDs.
func NewID() string {
	return ulid.Make().String()
}

// NewSecret returns a high-entropy URL-safe random string of n bytes of
// entropy, used for authorization codes, refresh tokens, and client secrets.
// ULIDs are not used here: record IDs may be guessable, credentials may not.
func NewSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
