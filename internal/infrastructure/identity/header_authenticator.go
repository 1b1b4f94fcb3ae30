package identity

import (
	"net/http"

	"github.com/prometria/authcore/internal/domain"
	"go.uber.org/zap"
)

// SubjectHeader carries the subject identifier asserted by the identity
// provider fronting the internal session routes.
const SubjectHeader = "X-Authenticated-Subject"

// HeaderAuthenticator implements Authenticator by trusting the subject header
// placed by the identity-provider collaborator. The internal routes it guards
// are never exposed past the perimeter.
type HeaderAuthenticator struct {
	logger *zap.Logger
}

// NewHeaderAuthenticator creates an authenticator reading the subject header
func NewHeaderAuthenticator(logger *zap.Logger) *HeaderAuthenticator {
	return &HeaderAuthenticator{logger: logger}
}

// Authenticate returns the subject asserted for the request
func (a *HeaderAuthenticator) Authenticate(r *http.Request) (string, error) {
	subject := r.Header.Get(SubjectHeader)
	if subject == "" {
		a.logger.Debug("Request without subject header", zap.String("path", r.URL.Path))
		return "", domain.ErrUnauthenticated
	}
	return subject, nil
}
