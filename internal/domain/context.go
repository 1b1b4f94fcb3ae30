package domain

import "context"

// ContextKey is a type for context keys to avoid magic strings
type ContextKey string

const (
	// ContextKeySubject is the key for the authenticated subject in the context
	ContextKeySubject ContextKey = "sub"
	// ContextKeyScope is the key for the granted scope list in the context
	ContextKeyScope ContextKey = "scope"
)

// WithSubject adds the authenticated subject to the context
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ContextKeySubject, subject)
}

// GetSubject retrieves the authenticated subject from the context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(ContextKeySubject).(string)
	return subject, ok
}

// WithScope adds the granted scope list to the context
func WithScope(ctx context.Context, scope []string) context.Context {
	return context.WithValue(ctx, ContextKeyScope, scope)
}

// GetScope retrieves the granted scope list from the context
func GetScope(ctx context.Context) ([]string, bool) {
	scope, ok := ctx.Value(ContextKeyScope).([]string)
	return scope, ok
}
