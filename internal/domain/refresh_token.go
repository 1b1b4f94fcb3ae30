package domain

import (
	"context"
	"time"
)

// RefreshToken is one link of a rotation chain. Rotation revokes the
// predecessor atomically with creating the successor, so a stolen-and-rotated
// token is dead for every holder.
type RefreshToken struct {
	ID            string    `json:"token_id"`
	Subject       string    `json:"subject"`
	ClientID      string    `json:"client_id"`
	Scope         []string  `json:"scope"`
	Resource      string    `json:"resource"`
	PredecessorID string    `json:"predecessor_id,omitempty"`
	Revoked       bool      `json:"revoked"`
	CreatedAt     time.Time `json:"created_at"`
}

// RefreshTokenRepository defines the interface for refresh token data access.
type RefreshTokenRepository interface {
	// Create stores the first token of a chain
	Create(ctx context.Context, token *RefreshToken) error

	// Find returns a token by ID, revoked or not. Missing tokens yield
	// ErrRefreshTokenNotFound.
	Find(ctx context.Context, id string) (*RefreshToken, error)

	// Rotate atomically revokes the token identified by id and stores
	// successor in the same transaction. If the token is already revoked the
	// rotation fails with ErrRefreshTokenRevoked and no successor is created.
	Rotate(ctx context.Context, id string, successor *RefreshToken) error
}
