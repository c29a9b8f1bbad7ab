package model

// ExecutionRule controls whether a test blocks the run.
type ExecutionRule string

const (
	// RuleBlocking makes a failing test fail the run.
	RuleBlocking ExecutionRule = "blocking"
	// RuleNonBlocking reports a failing test without failing the run.
	RuleNonBlocking ExecutionRule = "non_blocking"
	// RuleSkipped prevents the test from being triggered.
	RuleSkipped ExecutionRule = "skipped"
)

// TestOverrides are per-test adjustments applied when triggering.
type TestOverrides struct {
	ExecutionRule ExecutionRule     `json:"executionRule,omitempty" yaml:"executionRule,omitempty"`
	StartURL      string            `json:"startUrl,omitempty"      yaml:"startUrl,omitempty"`
	Variables     map[string]string `json:"variables,omitempty"     yaml:"variables,omitempty"`
	Locations     []string          `json:"locations,omitempty"     yaml:"locations,omitempty"`
}

// TestEntry is a test requested for the run, before its definition is fetched.
type TestEntry struct {
	PublicID  string
	Overrides TestOverrides
}

// Test is a Synthetic test definition as returned by the API.
type Test struct {
	PublicID      string
	Name          string
	Type          string
	ExecutionRule ExecutionRule
}

// EffectiveRule resolves the execution rule of a test: an override wins over
// the rule stored on the test, and blocking is the default.
func EffectiveRule(test Test, overrides TestOverrides) ExecutionRule {
	if overrides.ExecutionRule != "" {
		return overrides.ExecutionRule
	}

	if test.ExecutionRule != "" {
		return test.ExecutionRule
	}

	return RuleBlocking
}
