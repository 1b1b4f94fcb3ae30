package domain

import "context"

// TokenResponse is the token endpoint's success payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}

// CodeExchange carries the authorization_code grant parameters.
type CodeExchange struct {
	Code         string
	RedirectURI  string
	ClientID     string
	CodeVerifier string
	Resource     string
}

// TokenService defines the interface for the token endpoint grants.
type TokenService interface {
	// ExchangeCode redeems a one-time authorization code for a token pair.
	// Every validation failure is ErrInvalidGrant.
	ExchangeCode(ctx context.Context, req CodeExchange) (*TokenResponse, error)

	// Refresh rotates the presented refresh token and mints a new token pair
	// with the same scope and resource. A rotated token yields
	// ErrRefreshTokenRevoked.
	Refresh(ctx context.Context, refreshToken, clientID string) (*TokenResponse, error)
}
