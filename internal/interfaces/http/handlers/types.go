package handlers

// RegisterRequest is the dynamic client registration payload
type RegisterRequest struct {
	ClientName   string   `json:"client_name"`
	LogoURI      string   `json:"logo_uri,omitempty"`
	RedirectURIs []string `json:"redirect_uris"`
	Confidential bool     `json:"confidential,omitempty"`
}

// RegisterResponse is the registration result. ClientSecret is present only
// for confidential clients and only in this response.
type RegisterResponse struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty"`
	ClientName   string   `json:"client_name"`
	LogoURI      string   `json:"logo_uri,omitempty"`
	RedirectURIs []string `json:"redirect_uris"`
	RegisteredAt string   `json:"registered_at"`
}

// UpdateClientRequest is the admin client-update payload
type UpdateClientRequest struct {
	ClientName   string   `json:"client_name"`
	LogoURI      string   `json:"logo_uri,omitempty"`
	RedirectURIs []string `json:"redirect_uris"`
}

// RedirectResponse carries the redirect URL a session RPC resolved to
type RedirectResponse struct {
	RedirectURI string `json:"redirect_uri"`
}
