package domain

import "context"

// PaymentProvider is the billing collaborator seam. The core only needs to
// know whether a subject has a payment method configured and to trigger the
// setup flow; retries of the side-effecting setup call are the collaborator's
// own concern.
type PaymentProvider interface {
	// Configured reports whether the subject already has payment set up
	Configured(ctx context.Context, subject string) (bool, error)

	// Setup runs the synchronous payment-setup flow for the subject
	Setup(ctx context.Context, subject string) error
}
