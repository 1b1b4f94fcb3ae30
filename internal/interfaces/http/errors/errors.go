package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents the standard error response structure for the
// session and client-management APIs
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeValidation     = "ERR_VALIDATION"
	ErrCodeAuthentication = "ERR_AUTHENTICATION"
	ErrCodeAuthorization  = "ERR_AUTHORIZATION"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeConflict       = "ERR_CONFLICT"
	ErrCodeInternal       = "ERR_INTERNAL"
)

// RespondWithError sends a standardized error response
func RespondWithError(w http.ResponseWriter, code string, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// OAuthError is the RFC 6749 error envelope used by the token and
// registration endpoints
type OAuthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// OAuth error codes
const (
	OAuthInvalidRequest     = "invalid_request"
	OAuthInvalidGrant       = "invalid_grant"
	OAuthInvalidClient      = "invalid_client"
	OAuthInvalidRedirectURI = "invalid_redirect_uri"
	OAuthUnsupportedGrant   = "unsupported_grant_type"
	OAuthServerError        = "server_error"
)

// RespondWithOAuthError sends an RFC 6749 style error response
func RespondWithOAuthError(w http.ResponseWriter, oauthCode, description string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(OAuthError{
		Error:       oauthCode,
		Description: description,
	})
}
