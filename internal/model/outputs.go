package model

// ExitReason classifies how a run ended.
type ExitReason string

const (
	// ExitPassed means the run passed.
	ExitPassed ExitReason = "passed"
	// ExitFailed means at least one blocking test failed.
	ExitFailed ExitReason = "failed"
	// ExitError means the run could not be carried out.
	ExitError ExitReason = "error"
)

// Output names understood by the CI platform.
const (
	OutputResult            = "result"
	OutputResultsURL        = "resultsUrl"
	OutputCriticalErrors    = "criticalErrors"
	OutputPassed            = "passed"
	OutputFailedNonBlocking = "failedNonBlocking"
	OutputFailed            = "failed"
	OutputSkipped           = "skipped"
	OutputNotFound          = "notFound"
	OutputTimedOut          = "timedOut"
	OutputReport            = "report"
)

// Values of the result output.
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
)

// Outputs are the step outputs emitted at the end of a run.
type Outputs struct {
	Result            string
	ResultsURL        string
	CriticalErrors    int
	Passed            int
	FailedNonBlocking int
	Failed            int
	Skipped           int
	NotFound          int
	TimedOut          int
	Report            string
}

// Output is a single named step output.
type Output struct {
	Name  string
	Value any
}

// List returns the outputs in emission order.
func (o Outputs) List() []Output {
	return []Output{
		{Name: OutputResult, Value: o.Result},
		{Name: OutputResultsURL, Value: o.ResultsURL},
		{Name: OutputCriticalErrors, Value: o.CriticalErrors},
		{Name: OutputPassed, Value: o.Passed},
		{Name: OutputFailedNonBlocking, Value: o.FailedNonBlocking},
		{Name: OutputFailed, Value: o.Failed},
		{Name: OutputSkipped, Value: o.Skipped},
		{Name: OutputNotFound, Value: o.NotFound},
		{Name: OutputTimedOut, Value: o.TimedOut},
		{Name: OutputReport, Value: o.Report},
	}
}

// ResultFor maps an exit reason onto the result output value.
func ResultFor(reason ExitReason) string {
	if reason == ExitPassed {
		return ResultSucceeded
	}

	return ResultFailed
}
