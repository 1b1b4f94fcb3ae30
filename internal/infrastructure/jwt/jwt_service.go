package jwt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/prometria/authcore/internal/domain"
	"go.uber.org/zap"
)

type jwtService struct {
	strategy       domain.SigningStrategy
	issuer         string
	accessDuration time.Duration
	logger         *zap.Logger
	cache          *jwksCache
}

// jwksCache keeps the serialized key set so the publisher endpoint stays a
// cheap pass-through. It is invalidated whenever the key ID changes.
type jwksCache struct {
	document []byte
	keyID    string
	lastSync time.Time
	mu       sync.RWMutex
}

// NewJWTService creates a token minting service over a signing strategy
func NewJWTService(strategy domain.SigningStrategy, issuer string, accessDuration time.Duration, logger *zap.Logger) domain.JWTService {
	return &jwtService{
		strategy:       strategy,
		issuer:         issuer,
		accessDuration: accessDuration,
		logger:         logger,
		cache:          &jwksCache{},
	}
}

// GenerateAccessToken mints a signed access token for the subject and resource
func (j *jwtService) GenerateAccessToken(subject, clientID string, scope []string, resource string) (string, int64, error) {
	now := time.Now()
	tokenID := domain.NewID()

	claims := domain.Claims{
		Scope:    domain.JoinScope(scope),
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{resource},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	token, err := j.strategy.Sign(&claims)
	if err != nil {
		j.logger.Error("Failed to sign access token",
			zap.Error(err),
			zap.String("token_id", tokenID),
			zap.String("subject", subject))
		return "", 0, domain.ErrTokenGeneration
	}

	j.logger.Debug("Generated access token",
		zap.String("token_id", tokenID),
		zap.String("subject", subject),
		zap.String("audience", resource),
		zap.String("key_id", j.strategy.GetKeyID()))

	return token, int64(j.accessDuration.Seconds()), nil
}

// ValidateToken validates a JWT token and returns the claims
func (j *jwtService) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, domain.ErrInvalidToken
		}

		publicKey := j.strategy.GetPublicKey()
		if publicKey == nil {
			return nil, domain.ErrInvalidToken
		}
		return publicKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			j.logger.Warn("Token expired", zap.Error(err))
			return nil, domain.ErrTokenExpired
		default:
			j.logger.Error("Failed to parse token", zap.Error(err))
			return nil, domain.ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// GetJWKS returns the current public key set as a serialized JWKS document.
// The set always reflects the strategy's current key: rotation shows up on
// the next read without redeploy.
func (j *jwtService) GetJWKS(ctx context.Context) ([]byte, error) {
	currentKeyID := j.strategy.GetKeyID()

	j.cache.mu.RLock()
	if j.cache.document != nil && j.cache.keyID == currentKeyID &&
		time.Since(j.cache.lastSync) < domain.JWKSCacheDuration {
		doc := j.cache.document
		j.cache.mu.RUnlock()
		return doc, nil
	}
	j.cache.mu.RUnlock()

	publicKey := j.strategy.GetPublicKey()
	if publicKey == nil {
		j.logger.Error("Signing strategy has no public key")
		return nil, domain.ErrInvalidKeyConfig
	}

	key, err := jwk.FromRaw(publicKey)
	if err != nil {
		j.logger.Error("Failed to convert public key to JWK", zap.Error(err))
		return nil, domain.ErrInvalidKeyConfig
	}
	if err := key.Set(jwk.KeyIDKey, currentKeyID); err != nil {
		return nil, domain.ErrInvalidKeyConfig
	}
	if err := key.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, domain.ErrInvalidKeyConfig
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		return nil, domain.ErrInvalidKeyConfig
	}

	set := jwk.NewSet()
	if err := set.AddKey(key); err != nil {
		return nil, domain.ErrInvalidKeyConfig
	}

	document, err := json.Marshal(set)
	if err != nil {
		j.logger.Error("Failed to serialize JWKS", zap.Error(err))
		return nil, domain.ErrInvalidKeyConfig
	}

	j.cache.mu.Lock()
	j.cache.document = document
	j.cache.keyID = currentKeyID
	j.cache.lastSync = time.Now()
	j.cache.mu.Unlock()

	return document, nil
}

// RotateKeys rotates the signing keys and invalidates the JWKS cache
func (j *jwtService) RotateKeys() error {
	if err := j.strategy.RotateKey(); err != nil {
		j.logger.Error("Failed to rotate keys", zap.Error(err))
		return domain.ErrInvalidKeyConfig
	}

	j.cache.mu.Lock()
	j.cache.document = nil
	j.cache.keyID = ""
	j.cache.lastSync = time.Time{}
	j.cache.mu.Unlock()

	j.logger.Info("Signing keys rotated",
		zap.String("key_id", j.strategy.GetKeyID()),
		zap.Time("rotation_time", j.strategy.GetLastRotation()))

	return nil
}
