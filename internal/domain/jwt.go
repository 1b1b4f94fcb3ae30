package domain

import (
	"context"
	"crypto/rsa"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAccessTokenDuration is the default access token TTL
	DefaultAccessTokenDuration = 15 * time.Minute

	// DefaultSessionTTL is the default lifetime of an authorization session
	DefaultSessionTTL = 10 * time.Minute

	// RSAKeySize is the key size used when generating signing keys
	RSAKeySize = 2048

	// JWKSCacheDuration bounds how long a published key set may be served
	// from cache before re-reading the signing strategy
	JWKSCacheDuration = 5 * time.Minute
)

// Claims is the access-token claim set. Scope is the space-joined granted
// scope list; aud carries the resource the token is valid for.
type Claims struct {
	jwt.RegisteredClaims
	Scope    string `json:"scope"`
	ClientID string `json:"client_id,omitempty"`
}

// SigningStrategy is the signing-service collaborator seam: it holds key
// material, signs claims, and exposes the current public key for publication.
type SigningStrategy interface {
	// Sign produces a compact serialized token for the claims
	Sign(claims jwt.Claims) (string, error)

	// GetPublicKey returns the current verification key
	GetPublicKey() *rsa.PublicKey

	// GetKeyID returns the identifier of the current key
	GetKeyID() string

	// RotateKey replaces the key pair
	RotateKey() error

	// GetLastRotation returns the time of the last rotation
	GetLastRotation() time.Time
}

// JWTService defines the interface for token minting and key publication.
type JWTService interface {
	// GenerateAccessToken mints a signed access token for the subject,
	// audience, and scope, returning the token and its TTL in seconds
	GenerateAccessToken(subject, clientID string, scope []string, resource string) (string, int64, error)

	// ValidateToken verifies a token and returns its claims
	ValidateToken(tokenString string) (*Claims, error)

	// GetJWKS returns the current public key set in JWKS form
	GetJWKS(ctx context.Context) ([]byte, error)

	// RotateKeys rotates the signing keys and invalidates the JWKS cache
	RotateKeys() error
}
