package domain

import (
	"errors"

	m "github.com/synthci/synthci/internal/model"
)

// ExitReasonFromResults classifies a completed run: it failed when any
// result is a blocking failure.
func ExitReasonFromResults(_ m.RunConfig, results []m.Result) m.ExitReason {
	for _, result := range results {
		if result.Outcome == m.OutcomeFailed {
			return m.ExitFailed
		}
	}

	return m.ExitPassed
}

// ExitReasonFromError classifies a run that ended with err.
func ExitReasonFromError(cfg m.RunConfig, err error) m.ExitReason {
	var critical *CriticalError
	if !errors.As(err, &critical) {
		return m.ExitError
	}

	switch {
	case critical.Code == CodeNoTestsToRun:
		return m.ExitPassed
	case critical.Code == CodeMissingTests:
		return m.ExitError
	case cfg.FailOnCriticalErrors:
		return m.ExitError
	default:
		return m.ExitPassed
	}
}
