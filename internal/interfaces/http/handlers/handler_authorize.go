package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/prometria/authcore/internal/domain"
	"go.uber.org/zap"
)

// AuthorizeHandler handles the front-channel authorization request
type AuthorizeHandler struct {
	authorization domain.AuthorizationService
	loginURL      string
	logger        *zap.Logger
}

// NewAuthorizeHandler creates a new AuthorizeHandler
func NewAuthorizeHandler(authorization domain.AuthorizationService, loginURL string, logger *zap.Logger) *AuthorizeHandler {
	return &AuthorizeHandler{
		authorization: authorization,
		loginURL:      loginURL,
		logger:        logger,
	}
}

// Authorize handles GET /authorize. On success it redirects the user agent to
// the identity provider's login step carrying the session ID. Validation
// failures are plain-text 400s: the redirect URI is not yet trusted, so
// nothing may be sent back through it.
func (h *AuthorizeHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("response_type") != "code" {
		http.Error(w, "unsupported response_type", http.StatusBadRequest)
		return
	}

	req := domain.InitiateRequest{
		ClientID:            query.Get("client_id"),
		RedirectURI:         query.Get("redirect_uri"),
		Scope:               domain.ParseScope(query.Get("scope")),
		CodeChallenge:       query.Get("code_challenge"),
		CodeChallengeMethod: query.Get("code_challenge_method"),
		Resource:            query.Get("resource"),
		State:               query.Get("state"),
	}

	session, err := h.authorization.Initiate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingState):
			http.Error(w, "state parameter is required", http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalidCodeChallengeMethod):
			http.Error(w, "code_challenge with method S256 is required", http.StatusBadRequest)
		case errors.Is(err, domain.ErrClientNotFound):
			http.Error(w, "unknown client", http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalidRedirectURI):
			http.Error(w, "redirect_uri is not registered for this client", http.StatusBadRequest)
		default:
			h.logger.Error("Failed to initiate authorization", zap.Error(err))
			http.Error(w, "authorization request failed", http.StatusInternalServerError)
		}
		return
	}

	login, err := url.Parse(h.loginURL)
	if err != nil {
		h.logger.Error("Invalid login URL configured", zap.Error(err))
		http.Error(w, "authorization request failed", http.StatusInternalServerError)
		return
	}
	q := login.Query()
	q.Set("session_id", session.ID)
	login.RawQuery = q.Encode()

	http.Redirect(w, r, login.String(), http.StatusFound)
}
