package application

import (
	"context"
	"errors"
	"time"

	"github.com/prometria/authcore/internal/domain"
	"go.uber.org/zap"
)

// refreshTokenBytes is the entropy of minted refresh tokens.
const refreshTokenBytes = 32

// TokenService implements the token endpoint grants. Every code-exchange
// validation failure collapses into ErrInvalidGrant so the endpoint cannot be
// used as an oracle for which check failed.
type TokenService struct {
	codes    domain.CodeRepository
	tokens   domain.RefreshTokenRepository
	sessions domain.SessionRepository
	jwt      domain.JWTService
	logger   *zap.Logger
}

// NewTokenService creates a new TokenService
func NewTokenService(
	codes domain.CodeRepository,
	tokens domain.RefreshTokenRepository,
	sessions domain.SessionRepository,
	jwt domain.JWTService,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		codes:    codes,
		tokens:   tokens,
		sessions: sessions,
		jwt:      jwt,
		logger:   logger,
	}
}

// ExchangeCode redeems a one-time authorization code for a token pair. The
// code is consumed first: the consume swap is what guarantees at most one of
// any number of concurrent redemptions proceeds, and a redemption that then
// fails PKCE or binding checks burns the code rather than leaving it live.
func (s *TokenService) ExchangeCode(ctx context.Context, req domain.CodeExchange) (*domain.TokenResponse, error) {
	code, err := s.codes.Consume(ctx, req.Code, time.Now())
	if err != nil {
		s.logger.Warn("Authorization code redemption failed", zap.Error(err))
		return nil, domain.ErrInvalidGrant
	}

	if code.RedirectURI != req.RedirectURI {
		s.logger.Warn("Redirect URI mismatch at token exchange",
			zap.String("session_id", code.SessionID))
		return nil, domain.ErrInvalidGrant
	}
	if code.ClientID != req.ClientID {
		s.logger.Warn("Client mismatch at token exchange",
			zap.String("session_id", code.SessionID))
		return nil, domain.ErrInvalidGrant
	}
	if !domain.VerifyCodeChallenge(req.CodeVerifier, code.CodeChallenge) {
		s.logger.Warn("PKCE verification failed",
			zap.String("session_id", code.SessionID))
		return nil, domain.ErrInvalidGrant
	}
	if code.Resource != req.Resource {
		s.logger.Warn("Resource mismatch at token exchange",
			zap.String("session_id", code.SessionID))
		return nil, domain.ErrInvalidGrant
	}

	// Mark the session terminal. The consume swap above is the single-use
	// guarantee; a session that already expired out of the store does not
	// block the exchange.
	if err := s.sessions.UpdateStatus(ctx, code.SessionID, domain.StatusCodeIssued, domain.StatusExchanged); err != nil {
		s.logger.Warn("Failed to mark session exchanged",
			zap.String("session_id", code.SessionID),
			zap.Error(err))
	}

	return s.mint(ctx, code.Subject, code.ClientID, code.Scope, code.Resource, "")
}

// Refresh rotates the presented refresh token and mints a new token pair with
// the same scope and resource. Replaying a rotated token is the theft signal;
// it gets a distinct revoked error description under the same invalid_grant
// code.
func (s *TokenService) Refresh(ctx context.Context, refreshToken, clientID string) (*domain.TokenResponse, error) {
	token, err := s.tokens.Find(ctx, refreshToken)
	if err != nil {
		s.logger.Warn("Unknown refresh token presented")
		return nil, domain.ErrInvalidGrant
	}
	if token.Revoked {
		s.logger.Warn("Rotated refresh token replayed",
			zap.String("subject", token.Subject),
			zap.String("client_id", token.ClientID))
		return nil, domain.ErrRefreshTokenRevoked
	}
	if token.ClientID != clientID {
		s.logger.Warn("Refresh token presented by wrong client",
			zap.String("client_id", clientID))
		return nil, domain.ErrInvalidGrant
	}

	return s.mint(ctx, token.Subject, token.ClientID, token.Scope, token.Resource, token.ID)
}

// mint creates the access token and the next refresh token. When predecessor
// is set the new refresh token is installed by atomic rotation; otherwise it
// starts a fresh chain.
func (s *TokenService) mint(ctx context.Context, subject, clientID string, scope []string, resource, predecessor string) (*domain.TokenResponse, error) {
	accessToken, expiresIn, err := s.jwt.GenerateAccessToken(subject, clientID, scope, resource)
	if err != nil {
		return nil, err
	}

	refreshValue, err := domain.NewSecret(refreshTokenBytes)
	if err != nil {
		s.logger.Error("Failed to generate refresh token", zap.Error(err))
		return nil, domain.ErrInternal
	}

	next := &domain.RefreshToken{
		ID:            refreshValue,
		Subject:       subject,
		ClientID:      clientID,
		Scope:         scope,
		Resource:      resource,
		PredecessorID: predecessor,
		CreatedAt:     time.Now(),
	}

	if predecessor == "" {
		err = s.tokens.Create(ctx, next)
	} else {
		err = s.tokens.Rotate(ctx, predecessor, next)
	}
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenRevoked) {
			// A concurrent rotation won; this presentation is a replay.
			return nil, domain.ErrRefreshTokenRevoked
		}
		s.logger.Error("Failed to store refresh token", zap.Error(err))
		return nil, domain.ErrInternal
	}

	s.logger.Info("Token pair issued",
		zap.String("subject", subject),
		zap.String("client_id", clientID),
		zap.Bool("rotation", predecessor != ""))

	return &domain.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
		Scope:        domain.JoinScope(scope),
	}, nil
}
