package domain

import (
	"context"
	"time"
)

// SessionStatus is the lifecycle state of an authorization session. All
// transitions are one-directional; an operation invalid for the current
// status fails terminally for that request.
type SessionStatus string

const (
	StatusInitiated            SessionStatus = "initiated"
	StatusAwaitingPaymentSetup SessionStatus = "awaiting_payment_setup"
	StatusAwaitingConsent      SessionStatus = "awaiting_consent"
	StatusConsented            SessionStatus = "consented"
	StatusCodeIssued           SessionStatus = "code_issued"
	StatusExchanged            SessionStatus = "exchanged"
	StatusDenied               SessionStatus = "denied"
	StatusExpired              SessionStatus = "expired"
)

// sessionTransitions is the full transition relation of the session state
// machine. Anything not listed here is invalid.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	StatusInitiated:            {StatusAwaitingPaymentSetup, StatusAwaitingConsent, StatusExpired},
	StatusAwaitingPaymentSetup: {StatusAwaitingConsent, StatusDenied, StatusExpired},
	StatusAwaitingConsent:      {StatusConsented, StatusDenied, StatusExpired},
	StatusConsented:            {StatusCodeIssued, StatusExpired},
	StatusCodeIssued:           {StatusExchanged, StatusExpired},
}

// CanTransition reports whether the state machine permits moving from s to next.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s SessionStatus) Terminal() bool {
	return len(sessionTransitions[s]) == 0
}

// AuthorizationSession is the authoritative record of one in-flight
// authorization attempt. Subject stays empty until the identity provider
// confirms login; it is bound exactly once.
type AuthorizationSession struct {
	ID                  string        `json:"session_id"`
	ClientID            string        `json:"client_id"`
	RedirectURI         string        `json:"redirect_uri"`
	Scope               []string      `json:"scope"`
	CodeChallenge       string        `json:"code_challenge"`
	CodeChallengeMethod string        `json:"code_challenge_method"`
	Resource            string        `json:"resource"`
	State               string        `json:"state"`
	Status              SessionStatus `json:"status"`
	Subject             string        `json:"subject,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	ExpiresAt           time.Time     `json:"expires_at"`
}

// Expired reports whether the session has passed its TTL at the given instant.
func (s *AuthorizationSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// OwnedBy checks the session's bound subject against the caller. A session
// with no bound subject is not owned by anyone.
func (s *AuthorizationSession) OwnedBy(subject string) bool {
	return s.Subject != "" && s.Subject == subject
}

// SessionRepository defines the interface for session data access. Every
// mutation is a compare-and-swap: it succeeds only if the stored record still
// matches the expected precondition, otherwise ErrInvalidSessionState (or
// ErrSubjectAlreadyBound for BindSubject) is returned.
type SessionRepository interface {
	// Create stores a new session in the Initiated status
	Create(ctx context.Context, session *AuthorizationSession) error

	// Find returns a session by ID. Expired sessions are reported as
	// ErrSessionNotFound.
	Find(ctx context.Context, id string) (*AuthorizationSession, error)

	// BindSubject atomically binds subject to the session and moves it from
	// Initiated to next. Fails with ErrSubjectAlreadyBound if a subject is
	// already set, or ErrInvalidSessionState if the status moved.
	BindSubject(ctx context.Context, id, subject string, next SessionStatus) error

	// UpdateStatus atomically moves the session from the expected status to
	// the next one. Fails with ErrInvalidSessionState if the stored status
	// is not the expected one.
	UpdateStatus(ctx context.Context, id string, from, to SessionStatus) error
}
