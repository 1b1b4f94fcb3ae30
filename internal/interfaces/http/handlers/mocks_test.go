package handlers

import (
	"context"
	"net/http"

	"github.com/prometria/authcore/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockClientRegistry struct {
	mock.Mock
}

func (m *MockClientRegistry) Register(ctx context.Context, name, logoURI string, redirectURIs []string, confidential bool) (*domain.Client, string, error) {
	args := m.Called(ctx, name, logoURI, redirectURIs, confidential)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.Client), args.String(1), args.Error(2)
}

func (m *MockClientRegistry) Get(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRegistry) List(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRegistry) Update(ctx context.Context, clientID, name, logoURI string, redirectURIs []string) (*domain.Client, error) {
	args := m.Called(ctx, clientID, name, logoURI, redirectURIs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRegistry) Delete(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

type MockAuthorizationService struct {
	mock.Mock
}

func (m *MockAuthorizationService) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.AuthorizationSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationSession), args.Error(1)
}

func (m *MockAuthorizationService) ConfirmLogin(ctx context.Context, sessionID, subject string) (*domain.LoginConfirmation, error) {
	args := m.Called(ctx, sessionID, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginConfirmation), args.Error(1)
}

func (m *MockAuthorizationService) CompletePaymentSetup(ctx context.Context, sessionID, subject string) error {
	args := m.Called(ctx, sessionID, subject)
	return args.Error(0)
}

func (m *MockAuthorizationService) CompleteAuthorize(ctx context.Context, sessionID, subject string) (string, error) {
	args := m.Called(ctx, sessionID, subject)
	return args.String(0), args.Error(1)
}

func (m *MockAuthorizationService) DenyConsent(ctx context.Context, sessionID, subject string) (string, error) {
	args := m.Called(ctx, sessionID, subject)
	return args.String(0), args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) ExchangeCode(ctx context.Context, req domain.CodeExchange) (*domain.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenResponse), args.Error(1)
}

func (m *MockTokenService) Refresh(ctx context.Context, refreshToken, clientID string) (*domain.TokenResponse, error) {
	args := m.Called(ctx, refreshToken, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenResponse), args.Error(1)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(r *http.Request) (string, error) {
	args := m.Called(r)
	return args.String(0), args.Error(1)
}

type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(subject, clientID string, scope []string, resource string) (string, int64, error) {
	args := m.Called(subject, clientID, scope, resource)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockJWTService) ValidateToken(tokenString string) (*domain.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claims), args.Error(1)
}

func (m *MockJWTService) GetJWKS(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockJWTService) RotateKeys() error {
	args := m.Called()
	return args.Error(0)
}
