package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometria/authcore/internal/domain"
	httperrors "github.com/prometria/authcore/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// ClientHandler handles admin management of registered clients
type ClientHandler struct {
	registry domain.ClientRegistry
	logger   *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(registry domain.ClientRegistry, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		registry: registry,
		logger:   logger,
	}
}

// GetClient handles GET /admin/clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	client, err := h.registry.Get(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Client not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to find client", zap.String("client_id", clientID), zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to find client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

// ListClients handles GET /admin/clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.registry.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to list clients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

// UpdateClient handles PUT /admin/clients/{id}
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.registry.Update(r.Context(), clientID, req.ClientName, req.LogoURI, req.RedirectURIs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Client not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidRedirectURI):
			httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "redirect_uris must be a non-empty list of absolute URIs", http.StatusBadRequest)
		default:
			h.logger.Error("Failed to update client", zap.String("client_id", clientID), zap.Error(err))
			httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to update client", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("Client updated", zap.String("client_id", clientID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(client)
}

// DeleteClient handles DELETE /admin/clients/{id}
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	if err := h.registry.Delete(r.Context(), clientID); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Client not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to delete client", zap.String("client_id", clientID), zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to delete client", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
