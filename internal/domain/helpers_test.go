package domain

import (
	"context"
	"sync"
	"time"

	m "github.com/synthci/synthci/internal/model"
)

// recordingReporter keeps every call so tests can assert on what was shown.
type recordingReporter struct {
	mu        sync.Mutex
	logs      []string
	warnings  []string
	errors    []string
	triggered []m.Test
	batchID   string
	received  []m.Result
	ended     []m.Result
	summaries []m.Summary
	settings  *m.OrgSettings
	closed    int
}

func (r *recordingReporter) Log(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, message)
}

func (r *recordingReporter) Warn(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, message)
}

func (r *recordingReporter) Error(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recordingReporter) TestsTriggered(_ context.Context, tests []m.Test, batchID string, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggered = append(r.triggered, tests...)
	r.batchID = batchID
}

func (r *recordingReporter) ResultReceived(_ context.Context, result m.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, result)
}

func (r *recordingReporter) ResultEnd(_ context.Context, result m.Result, _ string, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, result)
}

func (r *recordingReporter) RunEnd(_ context.Context, summary m.Summary, _ string, settings *m.OrgSettings, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
	r.settings = settings
}

func (r *recordingReporter) Close(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
}

func testConfig() m.RunConfig {
	return m.RunConfig{
		APIKey:          "api",
		AppKey:          "app",
		DatadogSite:     "datadoghq.com",
		Subdomain:       "app",
		BatchTimeout:    time.Second,
		PollingInterval: time.Millisecond,
		FailOnTimeout:   true,
	}
}

func resultWith(id string, outcome m.Outcome) m.Result {
	return m.Result{
		Test:    m.Test{PublicID: id, Name: "test " + id},
		Outcome: outcome,
		Passed:  !outcome.IsFailure(),
	}
}
