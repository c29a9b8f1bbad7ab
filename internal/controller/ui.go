// Package controller provides reporters that display Synthetics run progress
// and results to a human.
package controller

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	m "github.com/synthci/synthci/internal/model"
)

// Reporter is the sink for human-readable progress and log messages during
// a run. Implementations can use different output methods (plain text, TUI).
type Reporter interface {
	Log(ctx context.Context, message string)
	Warn(ctx context.Context, message string)
	Error(ctx context.Context, message string)
	// TestsTriggered is called once the batch is started.
	TestsTriggered(ctx context.Context, tests []m.Test, batchID string, baseURL string)
	// ResultReceived is called as soon as a result is available.
	ResultReceived(ctx context.Context, result m.Result)
	// ResultEnd displays a final result, in the order chosen by the renderer.
	ResultEnd(ctx context.Context, result m.Result, baseURL string, batchID string)
	// RunEnd displays the run summary.
	RunEnd(ctx context.Context, summary m.Summary, baseURL string, settings *m.OrgSettings, elapsed time.Duration)
	// Close releases any terminal resources.
	Close(ctx context.Context)
}

// NewReporter returns a TUIReporter when tty is true and a SimpleReporter
// otherwise.
func NewReporter(out io.Writer, tty bool) Reporter {
	if tty {
		return NewTUIReporter(out)
	}

	return NewSimpleReporter(out)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
