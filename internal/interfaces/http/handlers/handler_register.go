package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometria/authcore/internal/domain"
	httperrors "github.com/prometria/authcore/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// RegisterHandler handles dynamic client registration
type RegisterHandler struct {
	registry domain.ClientRegistry
	logger   *zap.Logger
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(registry domain.ClientRegistry, logger *zap.Logger) *RegisterHandler {
	return &RegisterHandler{
		registry: registry,
		logger:   logger,
	}
}

// Register handles POST /register. The endpoint is public; rate limiting
// happens in front of it.
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode registration request", zap.Error(err))
		httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidRequest, "invalid request body", http.StatusBadRequest)
		return
	}

	client, secret, err := h.registry.Register(r.Context(), req.ClientName, req.LogoURI, req.RedirectURIs, req.Confidential)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRedirectURI) {
			httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidRedirectURI, "redirect_uris must be a non-empty list of absolute URIs", http.StatusBadRequest)
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		httperrors.RespondWithOAuthError(w, httperrors.OAuthServerError, "registration failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(RegisterResponse{
		ClientID:     client.ID,
		ClientSecret: secret,
		ClientName:   client.Name,
		LogoURI:      client.LogoURI,
		RedirectURIs: client.RedirectURIs,
		RegisteredAt: client.RegisteredAt.Format(time.RFC3339),
	})
}
