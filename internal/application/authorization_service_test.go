package application

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/prometria/authcore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthorizationService(
	sessions *MockSessionRepository,
	codes *MockCodeRepository,
	clients *MockClientRepository,
	payments *MockPaymentProvider,
) *AuthorizationService {
	policy := domain.NewStepPolicy(domain.StepGate{Scope: "prometheus:charge", Step: domain.StepSetup})
	return NewAuthorizationService(sessions, codes, clients, payments, policy, domain.DefaultSessionTTL, zap.NewNop())
}

func registeredClient() *domain.Client {
	return &domain.Client{
		ID:           "client-1",
		Name:         "Example App",
		LogoURI:      "https://app.example.com/logo.png",
		RedirectURIs: []string{"https://app.example.com/callback"},
	}
}

func pendingSession(status domain.SessionStatus, subject string, scope ...string) *domain.AuthorizationSession {
	if len(scope) == 0 {
		scope = []string{"openid", "profile"}
	}
	now := time.Now()
	return &domain.AuthorizationSession{
		ID:                  "session-1",
		ClientID:            "client-1",
		RedirectURI:         "https://app.example.com/callback",
		Scope:               scope,
		CodeChallenge:       domain.ComputeCodeChallenge("verifier"),
		CodeChallengeMethod: domain.CodeChallengeMethodS256,
		Resource:            "https://api.example.com",
		State:               "xyz",
		Status:              status,
		Subject:             subject,
		CreatedAt:           now,
		ExpiresAt:           now.Add(domain.DefaultSessionTTL),
	}
}

func TestAuthorizationService_Initiate(t *testing.T) {
	validRequest := domain.InitiateRequest{
		ClientID:            "client-1",
		RedirectURI:         "https://app.example.com/callback",
		Scope:               []string{"openid", "profile"},
		State:               "xyz",
		CodeChallenge:       domain.ComputeCodeChallenge("verifier"),
		CodeChallengeMethod: domain.CodeChallengeMethodS256,
		Resource:            "https://api.example.com",
	}

	tests := []struct {
		name    string
		mutate  func(req *domain.InitiateRequest)
		setup   func(sessions *MockSessionRepository, clients *MockClientRepository)
		wantErr error
	}{
		{
			name:   "success",
			mutate: func(req *domain.InitiateRequest) {},
			setup: func(sessions *MockSessionRepository, clients *MockClientRepository) {
				clients.On("FindByID", mock.Anything, "client-1").Return(registeredClient(), nil)
				sessions.On("Create", mock.Anything, mock.AnythingOfType("*domain.AuthorizationSession")).Return(nil)
			},
			wantErr: nil,
		},
		{
			name:    "missing state",
			mutate:  func(req *domain.InitiateRequest) { req.State = "" },
			setup:   func(sessions *MockSessionRepository, clients *MockClientRepository) {},
			wantErr: domain.ErrMissingState,
		},
		{
			name:    "plain challenge method",
			mutate:  func(req *domain.InitiateRequest) { req.CodeChallengeMethod = "plain" },
			setup:   func(sessions *MockSessionRepository, clients *MockClientRepository) {},
			wantErr: domain.ErrInvalidCodeChallengeMethod,
		},
		{
			name:    "missing challenge",
			mutate:  func(req *domain.InitiateRequest) { req.CodeChallenge = "" },
			setup:   func(sessions *MockSessionRepository, clients *MockClientRepository) {},
			wantErr: domain.ErrInvalidCodeChallengeMethod,
		},
		{
			name:   "unknown client",
			mutate: func(req *domain.InitiateRequest) { req.ClientID = "client-2" },
			setup: func(sessions *MockSessionRepository, clients *MockClientRepository) {
				clients.On("FindByID", mock.Anything, "client-2").Return(nil, domain.ErrClientNotFound)
			},
			wantErr: domain.ErrClientNotFound,
		},
		{
			name:   "unregistered redirect uri",
			mutate: func(req *domain.InitiateRequest) { req.RedirectURI = "https://evil.example.com/callback" },
			setup: func(sessions *MockSessionRepository, clients *MockClientRepository) {
				clients.On("FindByID", mock.Anything, "client-1").Return(registeredClient(), nil)
			},
			wantErr: domain.ErrInvalidRedirectURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessionRepository)
			codes := new(MockCodeRepository)
			clients := new(MockClientRepository)
			payments := new(MockPaymentProvider)
			tt.setup(sessions, clients)
			service := newAuthorizationService(sessions, codes, clients, payments)

			req := validRequest
			tt.mutate(&req)

			session, err := service.Initiate(context.Background(), req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.ID)
			assert.Equal(t, domain.StatusInitiated, session.Status)
			assert.Empty(t, session.Subject)
			assert.Equal(t, req.CodeChallenge, session.CodeChallenge)
			assert.WithinDuration(t, time.Now().Add(domain.DefaultSessionTTL), session.ExpiresAt, time.Minute)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthorizationService_ConfirmLogin_NextStep(t *testing.T) {
	tests := []struct {
		name       string
		scope      []string
		configured bool
		wantNext   domain.NextStep
		wantStatus domain.SessionStatus
	}{
		{
			name:       "no payment scope goes straight to consent",
			scope:      []string{"openid", "profile"},
			wantNext:   domain.StepConsent,
			wantStatus: domain.StatusAwaitingConsent,
		},
		{
			name:       "payment scope without configured method requires setup",
			scope:      []string{"openid", "profile", "prometheus:charge"},
			configured: false,
			wantNext:   domain.StepSetup,
			wantStatus: domain.StatusAwaitingPaymentSetup,
		},
		{
			name:       "payment scope with configured method skips setup",
			scope:      []string{"openid", "profile", "prometheus:charge"},
			configured: true,
			wantNext:   domain.StepConsent,
			wantStatus: domain.StatusAwaitingConsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessionRepository)
			codes := new(MockCodeRepository)
			clients := new(MockClientRepository)
			payments := new(MockPaymentProvider)

			session := pendingSession(domain.StatusInitiated, "", tt.scope...)
			sessions.On("Find", mock.Anything, "session-1").Return(session, nil)
			if domain.ScopeContains(tt.scope, "prometheus:charge") {
				payments.On("Configured", mock.Anything, "user-1").Return(tt.configured, nil)
			}
			sessions.On("BindSubject", mock.Anything, "session-1", "user-1", tt.wantStatus).Return(nil)
			clients.On("FindByID", mock.Anything, "client-1").Return(registeredClient(), nil)

			service := newAuthorizationService(sessions, codes, clients, payments)
			confirmation, err := service.ConfirmLogin(context.Background(), "session-1", "user-1")

			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, confirmation.NextStep)
			assert.Equal(t, "Example App", confirmation.ConsentData.ClientName)
			assert.Equal(t, tt.scope, confirmation.ConsentData.Scope)
			sessions.AssertExpectations(t)
			payments.AssertExpectations(t)
		})
	}
}

func TestAuthorizationService_ConfirmLogin_SessionNotFound(t *testing.T) {
	sessions := new(MockSessionRepository)
	sessions.On("Find", mock.Anything, "session-1").Return(nil, domain.ErrSessionNotFound)

	service := newAuthorizationService(sessions, new(MockCodeRepository), new(MockClientRepository), new(MockPaymentProvider))
	_, err := service.ConfirmLogin(context.Background(), "session-1", "user-1")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthorizationService_ConfirmLogin_BoundToOtherSubject(t *testing.T) {
	sessions := new(MockSessionRepository)
	unbound := pendingSession(domain.StatusInitiated, "")
	bound := pendingSession(domain.StatusAwaitingConsent, "user-1")
	sessions.On("Find", mock.Anything, "session-1").Return(unbound, nil).Once()
	sessions.On("BindSubject", mock.Anything, "session-1", "user-2", domain.StatusAwaitingConsent).
		Return(domain.ErrSubjectAlreadyBound)
	sessions.On("Find", mock.Anything, "session-1").Return(bound, nil).Once()

	service := newAuthorizationService(sessions, new(MockCodeRepository), new(MockClientRepository), new(MockPaymentProvider))
	_, err := service.ConfirmLogin(context.Background(), "session-1", "user-2")

	assert.ErrorIs(t, err, domain.ErrSessionOwnerMismatch)
	sessions.AssertExpectations(t)
}

func TestAuthorizationService_ConfirmLogin_RepeatBySameSubject(t *testing.T) {
	sessions := new(MockSessionRepository)
	unbound := pendingSession(domain.StatusInitiated, "")
	bound := pendingSession(domain.StatusAwaitingConsent, "user-1")
	sessions.On("Find", mock.Anything, "session-1").Return(unbound, nil).Once()
	sessions.On("BindSubject", mock.Anything, "session-1", "user-1", domain.StatusAwaitingConsent).
		Return(domain.ErrSubjectAlreadyBound)
	sessions.On("Find", mock.Anything, "session-1").Return(bound, nil).Once()

	service := newAuthorizationService(sessions, new(MockCodeRepository), new(MockClientRepository), new(MockPaymentProvider))
	_, err := service.ConfirmLogin(context.Background(), "session-1", "user-1")

	assert.ErrorIs(t, err, domain.ErrSubjectAlreadyBound)
}

func TestAuthorizationService_CompletePaymentSetup(t *testing.T) {
	tests := []struct {
		name    string
		session *domain.AuthorizationSession
		subject string
		setup   func(sessions *MockSessionRepository, payments *MockPaymentProvider)
		wantErr error
	}{
		{
			name:    "success",
			session: pendingSession(domain.StatusAwaitingPaymentSetup, "user-1", "openid", "prometheus:charge"),
			subject: "user-1",
			setup: func(sessions *MockSessionRepository, payments *MockPaymentProvider) {
				payments.On("Setup", mock.Anything, "user-1").Return(nil)
				sessions.On("UpdateStatus", mock.Anything, "session-1",
					domain.StatusAwaitingPaymentSetup, domain.StatusAwaitingConsent).Return(nil)
			},
		},
		{
			name:    "not awaiting payment setup",
			session: pendingSession(domain.StatusAwaitingConsent, "user-1"),
			subject: "user-1",
			setup:   func(sessions *MockSessionRepository, payments *MockPaymentProvider) {},
			wantErr: domain.ErrInvalidSessionState,
		},
		{
			name:    "wrong subject",
			session: pendingSession(domain.StatusAwaitingPaymentSetup, "user-1", "openid", "prometheus:charge"),
			subject: "user-2",
			setup:   func(sessions *MockSessionRepository, payments *MockPaymentProvider) {},
			wantErr: domain.ErrSessionOwnerMismatch,
		},
		{
			name:    "provider failure keeps the session retryable",
			session: pendingSession(domain.StatusAwaitingPaymentSetup, "user-1", "openid", "prometheus:charge"),
			subject: "user-1",
			setup: func(sessions *MockSessionRepository, payments *MockPaymentProvider) {
				payments.On("Setup", mock.Anything, "user-1").Return(domain.ErrPaymentSetup)
			},
			wantErr: domain.ErrPaymentSetup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessionRepository)
			payments := new(MockPaymentProvider)
			sessions.On("Find", mock.Anything, "session-1").Return(tt.session, nil)
			tt.setup(sessions, payments)

			service := newAuthorizationService(sessions, new(MockCodeRepository), new(MockClientRepository), payments)
			err := service.CompletePaymentSetup(context.Background(), "session-1", tt.subject)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				sessions.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthorizationService_CompleteAuthorize(t *testing.T) {
	sessions := new(MockSessionRepository)
	codes := new(MockCodeRepository)
	session := pendingSession(domain.StatusAwaitingConsent, "user-1")
	sessions.On("Find", mock.Anything, "session-1").Return(session, nil)
	sessions.On("UpdateStatus", mock.Anything, "session-1",
		domain.StatusAwaitingConsent, domain.StatusConsented).Return(nil)
	sessions.On("UpdateStatus", mock.Anything, "session-1",
		domain.StatusConsented, domain.StatusCodeIssued).Return(nil)

	var issued *domain.AuthorizationCode
	codes.On("Create", mock.Anything, mock.AnythingOfType("*domain.AuthorizationCode")).
		Run(func(args mock.Arguments) {
			issued = args.Get(1).(*domain.AuthorizationCode)
		}).Return(nil)

	service := newAuthorizationService(sessions, codes, new(MockClientRepository), new(MockPaymentProvider))
	redirect, err := service.CompleteAuthorize(context.Background(), "session-1", "user-1")

	require.NoError(t, err)
	require.NotNil(t, issued)
	assert.Equal(t, "session-1", issued.SessionID)
	assert.Equal(t, "user-1", issued.Subject)
	assert.Equal(t, session.CodeChallenge, issued.CodeChallenge)
	assert.Equal(t, session.RedirectURI, issued.RedirectURI)
	assert.WithinDuration(t, time.Now().Add(domain.AuthorizationCodeTTL), issued.ExpiresAt, time.Minute)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "app.example.com", u.Host)
	assert.Equal(t, issued.Code, u.Query().Get("code"))
	assert.Equal(t, "xyz", u.Query().Get("state"))
	sessions.AssertExpectations(t)
}

func TestAuthorizationService_CompleteAuthorize_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		session *domain.AuthorizationSession
		subject string
		wantErr error
	}{
		{
			name:    "still awaiting payment setup",
			session: pendingSession(domain.StatusAwaitingPaymentSetup, "user-1", "openid", "prometheus:charge"),
			subject: "user-1",
			wantErr: domain.ErrInvalidSessionState,
		},
		{
			name:    "subject never bound",
			session: pendingSession(domain.StatusInitiated, ""),
			subject: "user-1",
			wantErr: domain.ErrInvalidSessionState,
		},
		{
			name:    "wrong subject",
			session: pendingSession(domain.StatusAwaitingConsent, "user-1"),
			subject: "user-2",
			wantErr: domain.ErrSessionOwnerMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessionRepository)
			codes := new(MockCodeRepository)
			sessions.On("Find", mock.Anything, "session-1").Return(tt.session, nil)

			service := newAuthorizationService(sessions, codes, new(MockClientRepository), new(MockPaymentProvider))
			_, err := service.CompleteAuthorize(context.Background(), "session-1", tt.subject)

			assert.ErrorIs(t, err, tt.wantErr)
			codes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthorizationService_CompleteAuthorize_LostConsentSwap(t *testing.T) {
	sessions := new(MockSessionRepository)
	codes := new(MockCodeRepository)
	sessions.On("Find", mock.Anything, "session-1").
		Return(pendingSession(domain.StatusAwaitingConsent, "user-1"), nil)
	sessions.On("UpdateStatus", mock.Anything, "session-1",
		domain.StatusAwaitingConsent, domain.StatusConsented).Return(domain.ErrInvalidSessionState)

	service := newAuthorizationService(sessions, codes, new(MockClientRepository), new(MockPaymentProvider))
	_, err := service.CompleteAuthorize(context.Background(), "session-1", "user-1")

	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
	codes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthorizationService_DenyConsent(t *testing.T) {
	sessions := new(MockSessionRepository)
	sessions.On("Find", mock.Anything, "session-1").
		Return(pendingSession(domain.StatusAwaitingConsent, "user-1"), nil)
	sessions.On("UpdateStatus", mock.Anything, "session-1",
		domain.StatusAwaitingConsent, domain.StatusDenied).Return(nil)

	service := newAuthorizationService(sessions, new(MockCodeRepository), new(MockClientRepository), new(MockPaymentProvider))
	redirect, err := service.DenyConsent(context.Background(), "session-1", "user-1")

	require.NoError(t, err)
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "access_denied", u.Query().Get("error"))
	assert.Equal(t, "xyz", u.Query().Get("state"))
	assert.Empty(t, u.Query().Get("code"))
}

func TestAuthorizationService_DenyConsent_AfterCodeIssued(t *testing.T) {
	sessions := new(MockSessionRepository)
	sessions.On("Find", mock.Anything, "session-1").
		Return(pendingSession(domain.StatusCodeIssued, "user-1"), nil)

	service := newAuthorizationService(sessions, new(MockCodeRepository), new(MockClientRepository), new(MockPaymentProvider))
	_, err := service.DenyConsent(context.Background(), "session-1", "user-1")

	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
}

func TestRedirectWith_PreservesExistingQuery(t *testing.T) {
	redirect, err := redirectWith("https://app.example.com/cb?keep=1", url.Values{
		"code":  {"abc"},
		"state": {"xyz"},
	})

	require.NoError(t, err)
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "1", u.Query().Get("keep"))
	assert.Equal(t, "abc", u.Query().Get("code"))
	assert.Equal(t, "xyz", u.Query().Get("state"))
}
