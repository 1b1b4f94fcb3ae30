package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prometria/authcore/internal/domain"
	httperrors "github.com/prometria/authcore/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// WellKnownHandler serves the key-publishing and discovery endpoints
type WellKnownHandler struct {
	jwtService domain.JWTService
	issuer     string
	logger     *zap.Logger
}

// NewWellKnownHandler creates a new WellKnownHandler
func NewWellKnownHandler(jwtService domain.JWTService, issuer string, logger *zap.Logger) *WellKnownHandler {
	return &WellKnownHandler{
		jwtService: jwtService,
		issuer:     issuer,
		logger:     logger,
	}
}

// JWKS handles GET /.well-known/jwks.json. The document is cacheable but
// always read through the signing service, so key rotation shows up without
// redeploy.
func (h *WellKnownHandler) JWKS(w http.ResponseWriter, r *http.Request) {
	document, err := h.jwtService.GetJWKS(r.Context())
	if err != nil {
		h.logger.Error("Failed to get JWKS", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to get JWKS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(document)
}

// OpenIDConfiguration handles GET /.well-known/openid-configuration
func (h *WellKnownHandler) OpenIDConfiguration(w http.ResponseWriter, r *http.Request) {
	config := map[string]interface{}{
		"issuer":                                h.issuer,
		"authorization_endpoint":                h.issuer + "/authorize",
		"token_endpoint":                        h.issuer + "/token",
		"registration_endpoint":                 h.issuer + "/register",
		"jwks_uri":                              h.issuer + "/.well-known/jwks.json",
		"response_types_supported":              []string{"code"},
		"grant_types_supported":                 []string{"authorization_code", "refresh_token"},
		"code_challenge_methods_supported":      []string{"S256"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
		"token_endpoint_auth_methods_supported": []string{"none", "client_secret_post"},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(config)
}
