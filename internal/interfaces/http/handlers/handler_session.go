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

// SessionHandler exposes the internal session RPCs called by the identity
// provider and the consent screen backend. Errors here are deliberately
// granular: these are same-origin backend calls, unlike the token endpoint.
type SessionHandler struct {
	authorization domain.AuthorizationService
	authenticator domain.Authenticator
	logger        *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(authorization domain.AuthorizationService, authenticator domain.Authenticator, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		authorization: authorization,
		authenticator: authenticator,
		logger:        logger,
	}
}

// ConfirmLogin handles POST /internal/sessions/{id}/confirm-login
func (h *SessionHandler) ConfirmLogin(w http.ResponseWriter, r *http.Request) {
	sessionID, subject, ok := h.sessionCall(w, r)
	if !ok {
		return
	}

	confirmation, err := h.authorization.ConfirmLogin(r.Context(), sessionID, subject)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(confirmation)
}

// CompletePaymentSetup handles POST /internal/sessions/{id}/payment-setup
func (h *SessionHandler) CompletePaymentSetup(w http.ResponseWriter, r *http.Request) {
	sessionID, subject, ok := h.sessionCall(w, r)
	if !ok {
		return
	}

	if err := h.authorization.CompletePaymentSetup(r.Context(), sessionID, subject); err != nil {
		h.respondSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteAuthorize handles POST /internal/sessions/{id}/authorize
func (h *SessionHandler) CompleteAuthorize(w http.ResponseWriter, r *http.Request) {
	sessionID, subject, ok := h.sessionCall(w, r)
	if !ok {
		return
	}

	redirect, err := h.authorization.CompleteAuthorize(r.Context(), sessionID, subject)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RedirectResponse{RedirectURI: redirect})
}

// Deny handles POST /internal/sessions/{id}/deny
func (h *SessionHandler) Deny(w http.ResponseWriter, r *http.Request) {
	sessionID, subject, ok := h.sessionCall(w, r)
	if !ok {
		return
	}

	redirect, err := h.authorization.DenyConsent(r.Context(), sessionID, subject)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RedirectResponse{RedirectURI: redirect})
}

// sessionCall extracts the session ID and the authenticated subject, writing
// the error response itself when either is missing.
func (h *SessionHandler) sessionCall(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Session ID is required", http.StatusBadRequest)
		return "", "", false
	}

	subject, err := h.authenticator.Authenticate(r)
	if err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeAuthentication, "Request carries no authenticated subject", http.StatusUnauthorized)
		return "", "", false
	}

	return sessionID, subject, true
}

func (h *SessionHandler) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "Session not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrSessionOwnerMismatch):
		httperrors.RespondWithError(w, httperrors.ErrCodeAuthorization, "Caller does not match session owner", http.StatusForbidden)
	case errors.Is(err, domain.ErrSubjectAlreadyBound):
		httperrors.RespondWithError(w, httperrors.ErrCodeConflict, "Session already bound to a subject", http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidSessionState):
		httperrors.RespondWithError(w, httperrors.ErrCodeConflict, "Invalid session state", http.StatusConflict)
	case errors.Is(err, domain.ErrPaymentSetup):
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Payment setup failed", http.StatusBadGateway)
	default:
		h.logger.Error("Session operation failed", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Session operation failed", http.StatusInternalServerError)
	}
}
