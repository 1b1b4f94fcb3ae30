package domain

import (
	"context"
	"time"
)

// AuthorizationCodeTTL is the fixed lifetime of an authorization code.
const AuthorizationCodeTTL = 60 * time.Second

// AuthorizationCode is a one-time credential minted when a session reaches
// CodeIssued. It carries everything the token endpoint needs to re-validate
// the exchange without trusting the client.
type AuthorizationCode struct {
	Code                string    `json:"code"`
	SessionID           string    `json:"session_id"`
	Subject             string    `json:"subject"`
	ClientID            string    `json:"client_id"`
	RedirectURI         string    `json:"redirect_uri"`
	Resource            string    `json:"resource"`
	Scope               []string  `json:"scope"`
	CodeChallenge       string    `json:"code_challenge"`
	CodeChallengeMethod string    `json:"code_challenge_method"`
	Consumed            bool      `json:"consumed"`
	CreatedAt           time.Time `json:"created_at"`
	ExpiresAt           time.Time `json:"expires_at"`
}

// Expired reports whether the code has passed its 60-second lifetime.
func (c *AuthorizationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// CodeRepository defines the interface for authorization code data access.
type CodeRepository interface {
	// Create stores a freshly minted code
	Create(ctx context.Context, code *AuthorizationCode) error

	// Consume atomically marks the code consumed and returns it. A code that
	// does not exist, is already consumed, or is past its expiry yields
	// ErrCodeNotFound. Two concurrent calls can never both succeed.
	Consume(ctx context.Context, code string, now time.Time) (*AuthorizationCode, error)
}
