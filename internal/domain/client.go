package domain

import (
	"context"
	"net/url"
	"time"
)

// Client represents a relying party registered through dynamic client registration.
// Public clients carry no secret; PKCE stands in for client authentication.
type Client struct {
	ID           string    `json:"client_id"`
	SecretHash   string    `json:"-"`
	Name         string    `json:"client_name"`
	LogoURI      string    `json:"logo_uri,omitempty"`
	RedirectURIs []string  `json:"redirect_uris"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"-"`
}

// Confidential reports whether the client registered with a secret.
func (c *Client) Confidential() bool {
	return c.SecretHash != ""
}

// AllowsRedirectURI reports whether uri is one of the client's registered redirect URIs.
// Comparison is byte-for-byte; no normalization.
func (c *Client) AllowsRedirectURI(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}

// ValidateRedirectURIs checks that the set is non-empty and every entry is a
// well-formed absolute URI.
func ValidateRedirectURIs(uris []string) error {
	if len(uris) == 0 {
		return ErrInvalidRedirectURI
	}
	for _, raw := range uris {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return ErrInvalidRedirectURI
		}
	}
	return nil
}

// ClientRegistry defines the interface for client registration operations
type ClientRegistry interface {
	// Register creates a new relying-party client record
	Register(ctx context.Context, name, logoURI string, redirectURIs []string, confidential bool) (*Client, string, error)

	// Get returns a client by its ID
	Get(ctx context.Context, clientID string) (*Client, error)

	// List lists all registered clients
	List(ctx context.Context) ([]*Client, error)

	// Update replaces the mutable client metadata
	Update(ctx context.Context, clientID, name, logoURI string, redirectURIs []string) (*Client, error)

	// Delete removes a client
	Delete(ctx context.Context, clientID string) error
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Client, error)
}
