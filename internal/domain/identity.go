package domain

import "net/http"

// Authenticator is the identity-provider collaborator seam. The core never
// authenticates humans; it only binds whatever subject identifier the
// collaborator vouches for on a request.
type Authenticator interface {
	// Authenticate returns the opaque subject identifier for the request, or
	// ErrUnauthenticated when none is present.
	Authenticate(r *http.Request) (string, error)
}
