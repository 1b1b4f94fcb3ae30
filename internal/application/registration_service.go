package application

import (
	"context"
	"time"

	"github.com/prometria/authcore/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// clientSecretBytes is the entropy of generated client secrets.
const clientSecretBytes = 32

// RegistrationService implements dynamic client registration and client
// management.
type RegistrationService struct {
	clients domain.ClientRepository
	logger  *zap.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(clients domain.ClientRepository, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		clients: clients,
		logger:  logger,
	}
}

// Register creates a new relying-party client. The plaintext secret is
// returned exactly once for confidential clients; only its hash is stored.
func (s *RegistrationService) Register(ctx context.Context, name, logoURI string, redirectURIs []string, confidential bool) (*domain.Client, string, error) {
	s.logger.Debug("Registering client",
		zap.String("client_name", name),
		zap.Strings("redirect_uris", redirectURIs))

	if err := domain.ValidateRedirectURIs(redirectURIs); err != nil {
		s.logger.Error("Invalid redirect URIs",
			zap.String("client_name", name),
			zap.Strings("redirect_uris", redirectURIs))
		return nil, "", err
	}

	var secret, secretHash string
	if confidential {
		var err error
		secret, err = domain.NewSecret(clientSecretBytes)
		if err != nil {
			s.logger.Error("Failed to generate client secret", zap.Error(err))
			return nil, "", domain.ErrInternal
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("Failed to hash client secret", zap.Error(err))
			return nil, "", domain.ErrInternal
		}
		secretHash = string(hash)
	}

	now := time.Now()
	client := &domain.Client{
		ID:           domain.NewID(),
		SecretHash:   secretHash,
		Name:         name,
		LogoURI:      logoURI,
		RedirectURIs: redirectURIs,
		RegisteredAt: now,
		UpdatedAt:    now,
	}

	if err := s.clients.Create(ctx, client); err != nil {
		s.logger.Error("Failed to store client", zap.Error(err))
		return nil, "", domain.ErrInternal
	}

	s.logger.Info("Client registered",
		zap.String("client_id", client.ID),
		zap.String("client_name", client.Name),
		zap.Bool("confidential", confidential))

	return client, secret, nil
}

// Get returns a client by its ID
func (s *RegistrationService) Get(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.clients.FindByID(ctx, clientID)
}

// List lists all registered clients
func (s *RegistrationService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.List(ctx)
}

// Update replaces the mutable client metadata
func (s *RegistrationService) Update(ctx context.Context, clientID, name, logoURI string, redirectURIs []string) (*domain.Client, error) {
	if err := domain.ValidateRedirectURIs(redirectURIs); err != nil {
		return nil, err
	}

	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	client.Name = name
	client.LogoURI = logoURI
	client.RedirectURIs = redirectURIs
	client.UpdatedAt = time.Now()

	if err := s.clients.Update(ctx, client); err != nil {
		s.logger.Error("Failed to update client", zap.String("client_id", clientID), zap.Error(err))
		return nil, domain.ErrInternal
	}

	s.logger.Info("Client updated", zap.String("client_id", clientID))
	return client, nil
}

// Delete removes a client
func (s *RegistrationService) Delete(ctx context.Context, clientID string) error {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, clientID); err != nil {
		s.logger.Error("Failed to delete client", zap.String("client_id", clientID), zap.Error(err))
		return domain.ErrInternal
	}
	s.logger.Info("Client deleted", zap.String("client_id", clientID))
	return nil
}
