package domain

import "context"

// InitiateRequest carries the validated parameters of an authorization
// request from the relying party.
type InitiateRequest struct {
	ClientID            string
	RedirectURI         string
	Scope               []string
	CodeChallenge       string
	CodeChallengeMethod string
	Resource            string
	State               string
}

// ConsentData is what the consent screen needs to render: who is asking and
// for what. Grouping scopes for presentation is the caller's concern.
type ConsentData struct {
	ClientName string   `json:"client_name"`
	LogoURI    string   `json:"logo_uri,omitempty"`
	Scope      []string `json:"scope"`
}

// LoginConfirmation is the result of binding a subject to a session.
type LoginConfirmation struct {
	NextStep    NextStep     `json:"next_step"`
	ConsentData *ConsentData `json:"consent_data"`
}

// AuthorizationService orchestrates the authorization session state machine.
type AuthorizationService interface {
	// Initiate validates the request and creates a session in Initiated
	Initiate(ctx context.Context, req InitiateRequest) (*AuthorizationSession, error)

	// ConfirmLogin binds the authenticated subject to the session exactly
	// once and decides the next required step
	ConfirmLogin(ctx context.Context, sessionID, subject string) (*LoginConfirmation, error)

	// CompletePaymentSetup runs the payment collaborator and advances the
	// session from AwaitingPaymentSetup to AwaitingConsent
	CompletePaymentSetup(ctx context.Context, sessionID, subject string) error

	// CompleteAuthorize issues a one-time code and returns the full redirect
	// URL carrying code and state
	CompleteAuthorize(ctx context.Context, sessionID, subject string) (string, error)

	// DenyConsent marks the session denied and returns a redirect URL
	// carrying error=access_denied
	DenyConsent(ctx context.Context, sessionID, subject string) (string, error)
}
