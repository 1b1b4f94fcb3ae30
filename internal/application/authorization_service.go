package application

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/prometria/authcore/internal/domain"
	"go.uber.org/zap"
)

// authorizationCodeBytes is the entropy of minted authorization codes.
const authorizationCodeBytes = 32

// AuthorizationService orchestrates the authorization session state machine.
// Every transition is persisted through a compare-and-swap; a lost swap is a
// terminal error for that request, never a retry.
type AuthorizationService struct {
	sessions   domain.SessionRepository
	codes      domain.CodeRepository
	clients    domain.ClientRepository
	payments   domain.PaymentProvider
	stepPolicy *domain.StepPolicy
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(
	sessions domain.SessionRepository,
	codes domain.CodeRepository,
	clients domain.ClientRepository,
	payments domain.PaymentProvider,
	stepPolicy *domain.StepPolicy,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *AuthorizationService {
	return &AuthorizationService{
		sessions:   sessions,
		codes:      codes,
		clients:    clients,
		payments:   payments,
		stepPolicy: stepPolicy,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Initiate validates the authorization request and creates a session in the
// Initiated status.
func (s *AuthorizationService) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.AuthorizationSession, error) {
	s.logger.Debug("Initiating authorization session",
		zap.String("client_id", req.ClientID),
		zap.String("redirect_uri", req.RedirectURI),
		zap.Strings("scope", req.Scope))

	if req.State == "" {
		return nil, domain.ErrMissingState
	}
	if req.CodeChallengeMethod != domain.CodeChallengeMethodS256 || req.CodeChallenge == "" {
		return nil, domain.ErrInvalidCodeChallengeMethod
	}

	client, err := s.clients.FindByID(ctx, req.ClientID)
	if err != nil {
		s.logger.Error("Unknown client",
			zap.String("client_id", req.ClientID),
			zap.Error(err))
		return nil, domain.ErrClientNotFound
	}

	if !client.AllowsRedirectURI(req.RedirectURI) {
		s.logger.Error("Redirect URI not registered for client",
			zap.String("client_id", req.ClientID),
			zap.String("redirect_uri", req.RedirectURI))
		return nil, domain.ErrInvalidRedirectURI
	}

	now := time.Now()
	session := &domain.AuthorizationSession{
		ID:                  domain.NewID(),
		ClientID:            req.ClientID,
		RedirectURI:         req.RedirectURI,
		Scope:               req.Scope,
		CodeChallenge:       req.CodeChallenge,
		CodeChallengeMethod: req.CodeChallengeMethod,
		Resource:            req.Resource,
		State:               req.State,
		Status:              domain.StatusInitiated,
		CreatedAt:           now,
		ExpiresAt:           now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("Failed to store session", zap.Error(err))
		return nil, domain.ErrInternal
	}

	s.logger.Info("Authorization session created",
		zap.String("session_id", session.ID),
		zap.String("client_id", session.ClientID))

	return session, nil
}

// ConfirmLogin binds the authenticated subject to the session and decides the
// next required step. The binding is a one-time compare-and-swap; a session
// bound to a different subject fails with an ownership error, which is the
// anti session-fixation guard.
func (s *AuthorizationService) ConfirmLogin(ctx context.Context, sessionID, subject string) (*domain.LoginConfirmation, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := domain.StatusAwaitingConsent
	step := domain.StepConsent
	if gate, gated := s.stepPolicy.RequiredGate(session.Scope); gated && gate.Step == domain.StepSetup {
		configured, err := s.payments.Configured(ctx, subject)
		if err != nil {
			s.logger.Error("Payment status check failed",
				zap.String("session_id", sessionID),
				zap.Error(err))
			return nil, err
		}
		if !configured {
			next = domain.StatusAwaitingPaymentSetup
			step = domain.StepSetup
		}
	}

	if err := s.sessions.BindSubject(ctx, sessionID, subject, next); err != nil {
		if errors.Is(err, domain.ErrSubjectAlreadyBound) {
			current, findErr := s.sessions.Find(ctx, sessionID)
			if findErr == nil && !current.OwnedBy(subject) {
				s.logger.Warn("Login confirmation by a different subject",
					zap.String("session_id", sessionID))
				return nil, domain.ErrSessionOwnerMismatch
			}
		}
		return nil, err
	}

	client, err := s.clients.FindByID(ctx, session.ClientID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subject bound to session",
		zap.String("session_id", sessionID),
		zap.String("next_step", string(step)))

	return &domain.LoginConfirmation{
		NextStep: step,
		ConsentData: &domain.ConsentData{
			ClientName: client.Name,
			LogoURI:    client.LogoURI,
			Scope:      session.Scope,
		},
	}, nil
}

// CompletePaymentSetup runs the payment collaborator and advances the session
// to AwaitingConsent. On collaborator failure the session keeps its status so
// the step itself can be retried.
func (s *AuthorizationService) CompletePaymentSetup(ctx context.Context, sessionID, subject string) error {
	session, err := s.ownedSession(ctx, sessionID, subject)
	if err != nil {
		return err
	}

	if session.Status != domain.StatusAwaitingPaymentSetup {
		return domain.ErrInvalidSessionState
	}

	if err := s.payments.Setup(ctx, subject); err != nil {
		s.logger.Error("Payment setup failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return err
	}

	return s.sessions.UpdateStatus(ctx, sessionID, domain.StatusAwaitingPaymentSetup, domain.StatusAwaitingConsent)
}

// CompleteAuthorize records consent, issues a one-time code, and returns the
// redirect URL carrying code and state. The consent swap is the serialization
// point: of any number of concurrent calls, exactly one mints a code.
func (s *AuthorizationService) CompleteAuthorize(ctx context.Context, sessionID, subject string) (string, error) {
	session, err := s.ownedSession(ctx, sessionID, subject)
	if err != nil {
		return "", err
	}

	// No step may be skipped: AwaitingPaymentSetup is not close enough.
	if session.Status != domain.StatusAwaitingConsent {
		return "", domain.ErrInvalidSessionState
	}

	if err := s.sessions.UpdateStatus(ctx, sessionID, domain.StatusAwaitingConsent, domain.StatusConsented); err != nil {
		return "", err
	}

	codeValue, err := domain.NewSecret(authorizationCodeBytes)
	if err != nil {
		s.logger.Error("Failed to generate authorization code", zap.Error(err))
		return "", domain.ErrInternal
	}

	now := time.Now()
	code := &domain.AuthorizationCode{
		Code:                codeValue,
		SessionID:           session.ID,
		Subject:             subject,
		ClientID:            session.ClientID,
		RedirectURI:         session.RedirectURI,
		Resource:            session.Resource,
		Scope:               session.Scope,
		CodeChallenge:       session.CodeChallenge,
		CodeChallengeMethod: session.CodeChallengeMethod,
		CreatedAt:           now,
		ExpiresAt:           now.Add(domain.AuthorizationCodeTTL),
	}

	if err := s.codes.Create(ctx, code); err != nil {
		s.logger.Error("Failed to store authorization code",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return "", domain.ErrInternal
	}

	if err := s.sessions.UpdateStatus(ctx, sessionID, domain.StatusConsented, domain.StatusCodeIssued); err != nil {
		return "", err
	}

	s.logger.Info("Authorization code issued",
		zap.String("session_id", sessionID),
		zap.String("client_id", session.ClientID))

	return redirectWith(session.RedirectURI, url.Values{
		"code":  {codeValue},
		"state": {session.State},
	})
}

// DenyConsent marks the session denied and returns a redirect URL carrying
// error=access_denied.
func (s *AuthorizationService) DenyConsent(ctx context.Context, sessionID, subject string) (string, error) {
	session, err := s.ownedSession(ctx, sessionID, subject)
	if err != nil {
		return "", err
	}

	if !session.Status.CanTransition(domain.StatusDenied) {
		return "", domain.ErrInvalidSessionState
	}

	if err := s.sessions.UpdateStatus(ctx, sessionID, session.Status, domain.StatusDenied); err != nil {
		return "", err
	}

	s.logger.Info("Consent denied", zap.String("session_id", sessionID))

	return redirectWith(session.RedirectURI, url.Values{
		"error": {"access_denied"},
		"state": {session.State},
	})
}

// ownedSession loads a session and enforces the caller-matches-owner check.
// An unbound session cannot be advanced past login confirmation, and a wrong
// subject gets an ownership error rather than not-found.
func (s *AuthorizationService) ownedSession(ctx context.Context, sessionID, subject string) (*domain.AuthorizationSession, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Subject == "" {
		return nil, domain.ErrInvalidSessionState
	}
	if !session.OwnedBy(subject) {
		s.logger.Warn("Session access by a subject other than its owner",
			zap.String("session_id", sessionID))
		return nil, domain.ErrSessionOwnerMismatch
	}
	return session, nil
}

// redirectWith appends the given parameters to a redirect URI, preserving any
// query the client registered.
func redirectWith(redirectURI string, params url.Values) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", domain.ErrInvalidRedirectURI
	}
	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Set(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
