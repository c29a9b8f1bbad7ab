package model

import "time"

// ResultStatus is the raw status of a test result reported by the API.
type ResultStatus string

// Known result statuses.
const (
	StatusPassed     ResultStatus = "passed"
	StatusFailed     ResultStatus = "failed"
	StatusSkipped    ResultStatus = "skipped"
	StatusInProgress ResultStatus = "in_progress"
)

// Outcome classifies a result after the run configuration is applied.
type Outcome int

const (
	// OutcomePassed is a passing blocking result.
	OutcomePassed Outcome = iota
	// OutcomePassedNonBlocking is a passing non-blocking result.
	OutcomePassedNonBlocking
	// OutcomeFailedNonBlocking is a failing result that does not fail the run.
	OutcomeFailedNonBlocking
	// OutcomeFailed is a failing result that fails the run.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomePassedNonBlocking:
		return "passed (non-blocking)"
	case OutcomeFailedNonBlocking:
		return "failed (non-blocking)"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsFailure reports whether the outcome is a failure, blocking or not.
func (o Outcome) IsFailure() bool {
	return o == OutcomeFailed || o == OutcomeFailedNonBlocking
}

// Result is the result of one test execution in one location.
type Result struct {
	Test          Test
	ExecutionRule ExecutionRule
	ResultID      string
	Location      string
	Status        ResultStatus
	Duration      time.Duration
	TimedOut      bool
	// Unhealthy marks a result that could not be produced because of an
	// infrastructure problem rather than a test failure.
	Unhealthy bool
	Retries   int

	// Passed and Outcome are computed from the raw fields and the config.
	Passed  bool
	Outcome Outcome
}

// HasPassed reports whether a result counts as passing under cfg: a timeout is
// tolerated unless FailOnTimeout is set, and an unhealthy result is tolerated
// unless FailOnCriticalErrors is set. Otherwise the raw status decides; timed
// out results always carry a failed status.
func HasPassed(r Result, cfg RunConfig) bool {
	if r.Unhealthy && !cfg.FailOnCriticalErrors {
		return true
	}

	if r.TimedOut && !cfg.FailOnTimeout {
		return true
	}

	return r.Status == StatusPassed
}

// OutcomeOf classifies a result whose Passed field is already computed.
func OutcomeOf(r Result) Outcome {
	nonBlocking := r.ExecutionRule == RuleNonBlocking

	switch {
	case r.Passed && nonBlocking:
		return OutcomePassedNonBlocking
	case r.Passed:
		return OutcomePassed
	case nonBlocking:
		return OutcomeFailedNonBlocking
	default:
		return OutcomeFailed
	}
}

// RunResult is what the execution engine produces for one run.
type RunResult struct {
	Results []Result
	Summary Summary
}

// OrgSettings holds account-level settings that affect a run.
type OrgSettings struct {
	OnDemandConcurrencyCap int
}
