package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/synthci/synthci/internal/adapter"
	"github.com/synthci/synthci/internal/controller"
	m "github.com/synthci/synthci/internal/model"
)

// FailureMessage is reported to the CI platform when the tests could not be
// executed.
const FailureMessage = "Running Datadog Synthetics tests failed."

// Orchestrator runs one Synthetics CI invocation end to end: it executes the
// tests, renders the results, sets the step outputs and signals the outcome
// to the CI platform.
type Orchestrator interface {
	Run(ctx context.Context, cfg m.RunConfig) (m.Outputs, error)
}

type orchestrator struct {
	executor Executor
	reporter controller.Reporter
	output   adapter.ActionOutput
	now      func() time.Time
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(executor Executor, reporter controller.Reporter, output adapter.ActionOutput) Orchestrator {
	return &orchestrator{
		executor: executor,
		reporter: reporter,
		output:   output,
		now:      time.Now,
	}
}

// Run returns the emitted outputs. The returned error wraps ErrRunFailed
// when the run did not pass; the failure has already been signalled to the
// CI platform by then.
func (o *orchestrator) Run(ctx context.Context, cfg m.RunConfig) (m.Outputs, error) {
	startTime := o.now()

	// Reporting outlives an interrupted run so the user still sees why it stopped.
	reportCtx := context.WithoutCancel(ctx)

	defer o.reporter.Close(reportCtx)

	run, settings, err := o.execute(ctx, cfg)
	if err != nil {
		return o.handleError(reportCtx, cfg, err)
	}

	return o.handleResults(reportCtx, cfg, run, settings, startTime)
}

func (o *orchestrator) execute(ctx context.Context, cfg m.RunConfig) (m.RunResult, *m.OrgSettings, error) {
	run, err := o.executor.ExecuteTests(ctx, o.reporter, cfg)
	if err != nil {
		return m.RunResult{}, nil, err
	}

	settings, err := o.executor.GetOrgSettings(ctx, o.reporter, cfg)
	if err != nil {
		return m.RunResult{}, nil, err
	}

	return run, settings, nil
}

func (o *orchestrator) handleResults(
	ctx context.Context,
	cfg m.RunConfig,
	run m.RunResult,
	settings *m.OrgSettings,
	startTime time.Time,
) (m.Outputs, error) {
	RenderResults(ctx, o.reporter, cfg, settings, run, startTime, o.now())
	ReportExitLogs(ctx, o.reporter, cfg, run.Results, nil)

	reason := ExitReasonFromResults(cfg, run.Results)
	summary := run.Summary
	batchURL := m.BatchURL(m.AppBaseURL(cfg), summary.BatchID)
	report := PrintSummary(summary, cfg)

	outputs := m.Outputs{
		Result:            m.ResultFor(reason),
		ResultsURL:        batchURL,
		CriticalErrors:    summary.CriticalErrors,
		Passed:            summary.Passed,
		FailedNonBlocking: summary.FailedNonBlocking,
		Failed:            summary.Failed,
		Skipped:           summary.Skipped,
		NotFound:          summary.NotFoundCount(),
		TimedOut:          summary.TimedOut,
		Report:            report,
	}

	emitErr := o.emit(outputs)

	if err := o.output.AppendSummary(RenderMarkdownSummary(summary, reason, batchURL)); err != nil {
		slog.Warn("Failed to write step summary", "error", err)
	}

	if reason != m.ExitPassed {
		o.output.SetFailed("Datadog Synthetics tests failed: " + report)
		return outputs, errors.Join(fmt.Errorf("%w: %s", ErrRunFailed, reason), emitErr)
	}

	o.output.Info("\n\nDatadog Synthetics tests succeeded: " + report)

	return outputs, emitErr
}

func (o *orchestrator) handleError(ctx context.Context, cfg m.RunConfig, err error) (m.Outputs, error) {
	slog.Error("Synthetics run aborted", "error", err)

	ReportExitLogs(ctx, o.reporter, cfg, nil, err)

	reason := ExitReasonFromError(cfg, err)
	outputs := m.Outputs{
		Result: m.ResultFor(reason),
		Report: ErrorReport,
	}

	emitErr := o.emit(outputs)

	if reason != m.ExitPassed {
		o.output.SetFailed(FailureMessage)
		return outputs, errors.Join(fmt.Errorf("%w: %w", ErrRunFailed, err), emitErr)
	}

	return outputs, emitErr
}

// emit sets every output, continuing past failures.
func (o *orchestrator) emit(outputs m.Outputs) error {
	var errs []error

	for _, output := range outputs.List() {
		if err := o.output.SetOutput(output.Name, output.Value); err != nil {
			slog.Error("Failed to set output", "name", output.Name, "error", err)
			errs = append(errs, fmt.Errorf("failed to set output %s: %w", output.Name, err))
		}
	}

	return errors.Join(errs...)
}
