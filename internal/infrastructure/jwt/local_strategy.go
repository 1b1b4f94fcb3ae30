package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometria/authcore/internal/domain"
	"go.uber.org/zap"
)

// localStrategy implements SigningStrategy using a local RSA key pair. It is
// the in-process stand-in for the external signing service; anything that can
// sign and list public keys can replace it behind the interface.
type localStrategy struct {
	privateKey   *rsa.PrivateKey
	publicKey    *rsa.PublicKey
	keyPath      string
	logger       *zap.Logger
	keyID        string
	lastRotation time.Time
	mu           sync.RWMutex
}

// NewLocalStrategy creates a signing strategy backed by a local RSA key pair.
// If keyPath is empty an ephemeral key is generated; otherwise the key is
// loaded from disk, or generated and persisted on first start.
func NewLocalStrategy(keyPath string, logger *zap.Logger) (domain.SigningStrategy, error) {
	strategy := &localStrategy{
		keyPath:      keyPath,
		logger:       logger,
		lastRotation: time.Now(),
	}

	if err := strategy.loadOrGenerateKeyPair(); err != nil {
		return nil, domain.ErrInvalidKeyConfig
	}

	strategy.keyID = generateKeyID(strategy.privateKey)

	return strategy, nil
}

func (l *localStrategy) loadOrGenerateKeyPair() error {
	if l.keyPath == "" {
		return l.generateKeyPair()
	}

	if err := os.MkdirAll(filepath.Dir(l.keyPath), 0700); err != nil {
		return domain.ErrInvalidKeyConfig
	}

	if err := l.loadKeyPair(); err == nil {
		return nil
	}

	if err := l.generateKeyPair(); err != nil {
		return err
	}
	return l.saveKeyPair()
}

func (l *localStrategy) loadKeyPair() error {
	privateKeyPEM, err := os.ReadFile(l.keyPath)
	if err != nil {
		return domain.ErrInvalidKeyConfig
	}

	block, _ := pem.Decode(privateKeyPEM)
	if block == nil {
		return domain.ErrInvalidKeyConfig
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return domain.ErrInvalidKeyConfig
	}

	l.privateKey = privateKey
	l.publicKey = &privateKey.PublicKey
	return nil
}

func (l *localStrategy) generateKeyPair() error {
	privateKey, err := rsa.GenerateKey(rand.Reader, domain.RSAKeySize)
	if err != nil {
		l.logger.Error("Failed to generate RSA key pair", zap.Error(err))
		return domain.ErrInvalidKeyConfig
	}

	l.privateKey = privateKey
	l.publicKey = &privateKey.PublicKey
	return nil
}

func (l *localStrategy) saveKeyPair() error {
	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(l.privateKey),
	}
	if err := os.WriteFile(l.keyPath, pem.EncodeToMemory(block), 0600); err != nil {
		l.logger.Error("Failed to persist key pair", zap.Error(err))
		return domain.ErrInvalidKeyConfig
	}
	return nil
}

// Sign signs the claims with the current private key using RS256
func (l *localStrategy) Sign(claims jwt.Claims) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = l.keyID
	return token.SignedString(l.privateKey)
}

// GetPublicKey returns the current verification key
func (l *localStrategy) GetPublicKey() *rsa.PublicKey {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.publicKey
}

// GetKeyID returns the current key ID
func (l *localStrategy) GetKeyID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.keyID
}

// RotateKey generates a new key pair and updates the key ID
func (l *localStrategy) RotateKey() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.generateKeyPair(); err != nil {
		return err
	}
	if l.keyPath != "" {
		if err := l.saveKeyPair(); err != nil {
			return err
		}
	}

	l.keyID = generateKeyID(l.privateKey)
	l.lastRotation = time.Now()
	return nil
}

// GetLastRotation returns the last key rotation time
func (l *localStrategy) GetLastRotation() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastRotation
}

// generateKeyID derives a stable identifier from the public key material
func generateKeyID(key *rsa.PrivateKey) string {
	data := append(key.N.Bytes(), byte(key.E))
	hash := sha256.Sum256(data)
	return base64.RawURLEncoding.EncodeToString(hash[:8])
}
