package domain

import (
	"errors"
	"fmt"
)

// ErrRunFailed is returned by the orchestrator when the run did not pass.
// The outputs have been emitted by the time it is returned.
var ErrRunFailed = errors.New("synthetics run failed")

// CriticalErrorCode classifies a CriticalError.
type CriticalErrorCode string

// Known critical error codes.
const (
	CodeNoTestsToRun          CriticalErrorCode = "NO_TESTS_TO_RUN"
	CodeMissingTests          CriticalErrorCode = "MISSING_TESTS"
	CodeUnavailableTestConfig CriticalErrorCode = "UNAVAILABLE_TEST_CONFIG"
	CodeTriggerTestsFailed    CriticalErrorCode = "TRIGGER_TESTS_FAILED"
	CodePollResultsFailed     CriticalErrorCode = "POLL_RESULTS_FAILED"
)

// CriticalError is an engine failure whose effect on the run outcome
// depends on the configuration.
type CriticalError struct {
	Code    CriticalErrorCode
	Message string
	Err     error
}

func (e *CriticalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *CriticalError) Unwrap() error {
	return e.Err
}

func newCriticalError(code CriticalErrorCode, message string, err error) *CriticalError {
	return &CriticalError{Code: code, Message: message, Err: err}
}
