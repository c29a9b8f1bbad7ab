package domain

import (
	"context"
	"errors"

	"github.com/synthci/synthci/internal/controller"
	m "github.com/synthci/synthci/internal/model"
)

// ReportExitLogs explains through the reporter why the run ends the way it
// does. Either results or err is set.
func ReportExitLogs(ctx context.Context, reporter controller.Reporter, cfg m.RunConfig, results []m.Result, err error) {
	if !cfg.FailOnTimeout && anyResult(results, func(r m.Result) bool { return r.TimedOut }) {
		reporter.Log(ctx, "fail_on_timeout is disabled: timed out tests were not counted as failures.")
	}

	if !cfg.FailOnCriticalErrors && anyResult(results, func(r m.Result) bool { return r.Unhealthy }) {
		reporter.Log(ctx, "fail_on_critical_errors is disabled: tests with critical errors were not counted as failures.")
	}

	if err == nil {
		return
	}

	var critical *CriticalError
	if !errors.As(err, &critical) {
		reporter.Error(ctx, "Error: "+err.Error())
		return
	}

	switch {
	case critical.Code == CodeNoTestsToRun:
		reporter.Log(ctx, critical.Error())
	case critical.Code == CodeMissingTests || cfg.FailOnCriticalErrors:
		reporter.Error(ctx, "Error: "+critical.Error())
	default:
		reporter.Warn(ctx, critical.Error()+" (ignored because fail_on_critical_errors is disabled)")
	}
}

func anyResult(results []m.Result, match func(m.Result) bool) bool {
	for _, result := range results {
		if match(result) {
			return true
		}
	}

	return false
}
