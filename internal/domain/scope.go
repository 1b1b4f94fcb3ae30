package domain

import "strings"

// NextStep names the step the user agent must complete next after login
// confirmation.
type NextStep string

const (
	StepConsent NextStep = "consent"
	StepSetup   NextStep = "setup"
)

// ParseScope splits a space-delimited scope parameter, preserving order and
// dropping empty entries.
func ParseScope(raw string) []string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// JoinScope renders a scope list back into its wire form.
func JoinScope(scope []string) string {
	return strings.Join(scope, " ")
}

// ScopeContains reports whether the scope list includes the given value.
func ScopeContains(scope []string, value string) bool {
	for _, s := range scope {
		if s == value {
			return true
		}
	}
	return false
}

// StepGate declares that sessions whose scope contains Scope must pass
// through Step before consent.
type StepGate struct {
	Scope string
	Step  NextStep
}

// StepPolicy decides which step a session requires next, driven by a gate
// table so new gated steps can be added without touching the state machine.
type StepPolicy struct {
	gates []StepGate
}

// NewStepPolicy creates a policy from the given gates, evaluated in order.
func NewStepPolicy(gates ...StepGate) *StepPolicy {
	return &StepPolicy{gates: gates}
}

// RequiredGate returns the first gate triggered by the scope list, if any.
func (p *StepPolicy) RequiredGate(scope []string) (StepGate, bool) {
	for _, gate := range p.gates {
		if ScopeContains(scope, gate.Scope) {
			return gate, true
		}
	}
	return StepGate{}, false
}
