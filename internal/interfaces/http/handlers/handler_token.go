package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometria/authcore/internal/domain"
	httperrors "github.com/prometria/authcore/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// TokenHandler handles the token endpoint. Per RFC 6749 the request is
// form-encoded, and every grant validation failure is the same invalid_grant.
type TokenHandler struct {
	tokens domain.TokenService
	logger *zap.Logger
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(tokens domain.TokenService, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		logger: logger,
	}
}

// Token handles POST /token
func (h *TokenHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidRequest, "request body must be form encoded", http.StatusBadRequest)
		return
	}

	grantType := r.PostFormValue("grant_type")

	var (
		response *domain.TokenResponse
		err      error
	)

	switch grantType {
	case "authorization_code":
		req := domain.CodeExchange{
			Code:         r.PostFormValue("code"),
			RedirectURI:  r.PostFormValue("redirect_uri"),
			ClientID:     r.PostFormValue("client_id"),
			CodeVerifier: r.PostFormValue("code_verifier"),
			Resource:     r.PostFormValue("resource"),
		}
		if req.Code == "" || req.RedirectURI == "" || req.ClientID == "" || req.CodeVerifier == "" {
			httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidRequest, "code, redirect_uri, client_id and code_verifier are required", http.StatusBadRequest)
			return
		}
		response, err = h.tokens.ExchangeCode(r.Context(), req)

	case "refresh_token":
		refreshToken := r.PostFormValue("refresh_token")
		clientID := r.PostFormValue("client_id")
		if refreshToken == "" || clientID == "" {
			httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidRequest, "refresh_token and client_id are required", http.StatusBadRequest)
			return
		}
		response, err = h.tokens.Refresh(r.Context(), refreshToken, clientID)

	case "":
		httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidRequest, "grant_type is required", http.StatusBadRequest)
		return

	default:
		httperrors.RespondWithOAuthError(w, httperrors.OAuthUnsupportedGrant, "only authorization_code and refresh_token grants are supported", http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRefreshTokenRevoked):
			httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidGrant, "refresh token has been revoked", http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalidGrant):
			httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidGrant, "the provided grant is invalid, expired, or revoked", http.StatusBadRequest)
		default:
			h.logger.Error("Token issuance failed", zap.Error(err))
			httperrors.RespondWithOAuthError(w, httperrors.OAuthInvalidRequest, "token issuance failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	json.NewEncoder(w).Encode(response)
}
