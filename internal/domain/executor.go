package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/synthci/synthci/internal/adapter"
	"github.com/synthci/synthci/internal/controller"
	m "github.com/synthci/synthci/internal/model"
)

// TriggerApp identifies this tool in the metadata of triggered batches.
const TriggerApp = "github_action"

const maxConcurrentFetches = 10

// Executor triggers Synthetic tests and collects their results.
type Executor interface {
	// ExecuteTests runs the tests selected by cfg and waits for the batch to
	// complete or time out.
	ExecuteTests(ctx context.Context, reporter controller.Reporter, cfg m.RunConfig) (m.RunResult, error)
	// GetOrgSettings returns the organization settings shown in the report.
	GetOrgSettings(ctx context.Context, reporter controller.Reporter, cfg m.RunConfig) (*m.OrgSettings, error)
}

// APIFactory builds the API client for a resolved configuration.
type APIFactory func(cfg m.RunConfig) adapter.SyntheticsAPI

type executor struct {
	newAPI   APIFactory
	files    adapter.TestFileAdapter
	root     m.Path
	metadata func(triggerApp string) *adapter.CIMetadata
}

// NewExecutor constructs an Executor. Test files are searched under root.
func NewExecutor(newAPI APIFactory, files adapter.TestFileAdapter, root m.Path) Executor {
	return &executor{
		newAPI:   newAPI,
		files:    files,
		root:     root,
		metadata: adapter.DetectCIMetadata,
	}
}

// triggeredTest is a test sent in the batch along with its resolved rule.
type triggeredTest struct {
	test m.Test
	rule m.ExecutionRule
}

func (e *executor) ExecuteTests(ctx context.Context, reporter controller.Reporter, cfg m.RunConfig) (m.RunResult, error) {
	api := e.newAPI(cfg)

	entries, err := e.collectEntries(ctx, api, reporter, cfg)
	if err != nil {
		return m.RunResult{}, err
	}

	if len(entries) == 0 {
		return m.RunResult{}, newCriticalError(CodeNoTestsToRun, "No test to run", nil)
	}

	summary := m.NewSummary()

	tests, err := e.fetchTests(ctx, api, entries, &summary)
	if err != nil {
		return m.RunResult{Summary: summary}, err
	}

	if summary.NotFoundCount() > 0 {
		message := "Test(s) not found: " + strings.Join(sortedKeys(summary.TestsNotFound), ", ")
		if cfg.FailOnMissingTests {
			return m.RunResult{Summary: summary}, newCriticalError(CodeMissingTests, message, nil)
		}

		reporter.Warn(ctx, message)
	}

	request, triggered := e.buildTrigger(ctx, reporter, cfg, entries, tests, &summary)
	if len(request.Tests) == 0 {
		return m.RunResult{Summary: summary}, newCriticalError(CodeNoTestsToRun, "No test to run", nil)
	}

	batchID, err := api.TriggerTests(ctx, request)
	if err != nil {
		slog.Error("Failed to trigger tests", "count", len(request.Tests), "error", err)
		return m.RunResult{Summary: summary}, newCriticalError(CodeTriggerTestsFailed, "Failed to trigger tests", err)
	}

	summary.BatchID = batchID

	triggeredTests := make([]m.Test, 0, len(triggered))
	for _, t := range triggered {
		triggeredTests = append(triggeredTests, t.test)
	}

	reporter.TestsTriggered(ctx, triggeredTests, batchID, m.AppBaseURL(cfg))

	results, skipped, err := e.waitForResults(ctx, api, reporter, cfg, batchID, triggered)
	if err != nil {
		return m.RunResult{Summary: summary}, newCriticalError(CodePollResultsFailed, "Failed to poll results", err)
	}

	summary.Skipped += skipped
	tally(&summary, results)

	return m.RunResult{Results: results, Summary: summary}, nil
}

func (e *executor) GetOrgSettings(ctx context.Context, _ controller.Reporter, cfg m.RunConfig) (*m.OrgSettings, error) {
	settings, err := e.newAPI(cfg).GetOrgSettings(ctx)
	if err != nil {
		slog.Error("Failed to get organization settings", "error", err)
		return nil, fmt.Errorf("failed to get organization settings: %w", err)
	}

	return &settings, nil
}

func (e *executor) collectEntries(ctx context.Context, api adapter.SyntheticsAPI, reporter controller.Reporter, cfg m.RunConfig) ([]m.TestEntry, error) {
	switch cfg.Selection() {
	case m.SelectPublicIDs:
		return entriesFromIDs(cfg.PublicIDs), nil

	case m.SelectSearchQuery:
		ids, err := api.SearchTests(ctx, cfg.TestSearchQuery)
		if err != nil {
			slog.Error("Failed to search tests", "query", cfg.TestSearchQuery, "error", err)
			return nil, newCriticalError(CodeUnavailableTestConfig, "Failed to search tests", err)
		}

		return entriesFromIDs(ids), nil

	default:
		return e.entriesFromFiles(ctx, reporter, cfg.Files)
	}
}

func (e *executor) entriesFromFiles(ctx context.Context, reporter controller.Reporter, patterns []string) ([]m.TestEntry, error) {
	files, err := e.files.FindFiles(ctx, e.root, patterns)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		reporter.Log(ctx, "No test files found matching "+strings.Join(patterns, ", "))
		return nil, nil
	}

	var entries []m.TestEntry

	for _, file := range files {
		fileEntries, err := e.files.LoadTests(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("invalid test file %s: %w", file, err)
		}

		entries = append(entries, fileEntries...)
	}

	return entries, nil
}

func entriesFromIDs(ids []string) []m.TestEntry {
	entries := make([]m.TestEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, m.TestEntry{PublicID: id})
	}

	return entries
}

// fetchTests returns the definition of every entry, in entry order. Missing
// tests are recorded in the summary and left nil.
func (e *executor) fetchTests(ctx context.Context, api adapter.SyntheticsAPI, entries []m.TestEntry, summary *m.Summary) ([]*m.Test, error) {
	tests := make([]*m.Test, len(entries))

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentFetches)

	for i, entry := range entries {
		group.Go(func() error {
			test, err := api.GetTest(groupCtx, entry.PublicID)
			if err != nil {
				if adapter.IsNotFound(err) {
					mu.Lock()
					summary.AddNotFound(entry.PublicID)
					mu.Unlock()

					return nil
				}

				return fmt.Errorf("test %s: %w", entry.PublicID, err)
			}

			if test.PublicID == "" {
				test.PublicID = entry.PublicID
			}

			tests[i] = &test

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("Failed to get test configurations", "error", err)
		return nil, newCriticalError(CodeUnavailableTestConfig, "Failed to get test configurations", err)
	}

	return tests, nil
}

func (e *executor) buildTrigger(
	ctx context.Context,
	reporter controller.Reporter,
	cfg m.RunConfig,
	entries []m.TestEntry,
	tests []*m.Test,
	summary *m.Summary,
) (adapter.TriggerRequest, []triggeredTest) {
	request := adapter.TriggerRequest{Metadata: e.metadata(TriggerApp)}

	var triggered []triggeredTest

	for i, entry := range entries {
		test := tests[i]
		if test == nil {
			continue
		}

		rule := m.EffectiveRule(*test, entry.Overrides)
		if rule == m.RuleSkipped {
			summary.Skipped++

			reporter.Log(ctx, fmt.Sprintf("Skipping test %s (%s)", test.PublicID, test.Name))

			continue
		}

		request.Tests = append(request.Tests, adapter.TriggerTest{
			PublicID:      test.PublicID,
			ExecutionRule: entry.Overrides.ExecutionRule,
			StartURL:      entry.Overrides.StartURL,
			Variables:     mergeVariables(cfg.Variables, entry.Overrides.Variables),
			Locations:     firstNonEmpty(entry.Overrides.Locations, cfg.Locations),
		})
		triggered = append(triggered, triggeredTest{test: *test, rule: rule})
	}

	return request, triggered
}

// waitForResults polls the batch until it completes or cfg.BatchTimeout
// elapses. Tests still running at the deadline are returned as timed out.
func (e *executor) waitForResults(
	ctx context.Context,
	api adapter.SyntheticsAPI,
	reporter controller.Reporter,
	cfg m.RunConfig,
	batchID string,
	triggered []triggeredTest,
) ([]m.Result, int, error) {
	pollCtx, cancel := context.WithTimeout(ctx, cfg.BatchTimeout)
	defer cancel()

	byID := make(map[string]triggeredTest, len(triggered))
	for _, t := range triggered {
		byID[t.test.PublicID] = t
	}

	interval := cfg.PollingInterval
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	received := map[string]m.Result{}

	var last adapter.Batch

	for {
		batch, err := api.GetBatch(pollCtx, batchID)

		switch {
		case err == nil:
			last = batch
		case ctx.Err() != nil:
			return nil, 0, ctx.Err()
		case errors.Is(pollCtx.Err(), context.DeadlineExceeded):
			return e.timedOutResults(cfg, last, byID, received), countSkipped(last), nil
		default:
			slog.Error("Failed to poll batch", "batchID", batchID, "error", err)
			return nil, 0, err
		}

		for i, raw := range batch.Results {
			if raw.Status == m.StatusInProgress || raw.Status == m.StatusSkipped {
				continue
			}

			key := resultKey(raw, i)
			if _, ok := received[key]; ok {
				continue
			}

			result := toResult(cfg, raw, byID[raw.TestPublicID])
			received[key] = result
			reporter.ResultReceived(ctx, result)
		}

		if batch.Status != m.StatusInProgress && batch.Status != "" {
			return orderedResults(batch, received), countSkipped(batch), nil
		}

		select {
		case <-pollCtx.Done():
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}

			return e.timedOutResults(cfg, last, byID, received), countSkipped(last), nil
		case <-ticker.C:
		}
	}
}

func (e *executor) timedOutResults(cfg m.RunConfig, last adapter.Batch, byID map[string]triggeredTest, received map[string]m.Result) []m.Result {
	results := orderedResults(last, received)

	seen := map[string]bool{}
	for _, raw := range last.Results {
		seen[raw.TestPublicID] = true

		if raw.Status != m.StatusInProgress {
			continue
		}

		raw.TimedOut = true
		raw.Status = m.StatusFailed
		results = append(results, toResult(cfg, raw, byID[raw.TestPublicID]))
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		if !seen[id] {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)

	for _, id := range ids {
		raw := adapter.BatchResult{TestPublicID: id, Status: m.StatusFailed, TimedOut: true}
		results = append(results, toResult(cfg, raw, byID[id]))
	}

	return results
}

func orderedResults(batch adapter.Batch, received map[string]m.Result) []m.Result {
	results := make([]m.Result, 0, len(received))

	for i, raw := range batch.Results {
		if result, ok := received[resultKey(raw, i)]; ok {
			results = append(results, result)
		}
	}

	return results
}

func countSkipped(batch adapter.Batch) int {
	skipped := 0

	for _, raw := range batch.Results {
		if raw.Status == m.StatusSkipped {
			skipped++
		}
	}

	return skipped
}

func resultKey(raw adapter.BatchResult, index int) string {
	if raw.ResultID != "" {
		return raw.ResultID
	}

	return fmt.Sprintf("%s@%s#%d", raw.TestPublicID, raw.Location, index)
}

func toResult(cfg m.RunConfig, raw adapter.BatchResult, triggered triggeredTest) m.Result {
	test := triggered.test
	if test.PublicID == "" {
		test.PublicID = raw.TestPublicID
	}

	if test.Name == "" {
		test.Name = raw.TestName
	}

	if test.Type == "" {
		test.Type = raw.TestType
	}

	rule := raw.ExecutionRule
	if rule == "" {
		rule = triggered.rule
	}

	if rule == "" {
		rule = m.RuleBlocking
	}

	result := m.Result{
		Test:          test,
		ExecutionRule: rule,
		ResultID:      raw.ResultID,
		Location:      raw.Location,
		Status:        raw.Status,
		Duration:      time.Duration(raw.DurationMs * float64(time.Millisecond)),
		TimedOut:      raw.TimedOut,
		Unhealthy:     raw.Unhealthy,
		Retries:       raw.Retries,
	}
	result.Passed = m.HasPassed(result, cfg)
	result.Outcome = m.OutcomeOf(result)

	return result
}

func tally(summary *m.Summary, results []m.Result) {
	for _, result := range results {
		if result.Unhealthy {
			summary.CriticalErrors++
		}

		if result.TimedOut {
			summary.TimedOut++
		}

		switch result.Outcome {
		case m.OutcomePassed, m.OutcomePassedNonBlocking:
			summary.Passed++
		case m.OutcomeFailedNonBlocking:
			summary.FailedNonBlocking++
		case m.OutcomeFailed:
			summary.Failed++
		}
	}
}

func mergeVariables(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}

	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}

	for k, v := range overrides {
		merged[k] = v
	}

	return merged
}

func firstNonEmpty(lists ...[]string) []string {
	for _, list := range lists {
		if len(list) > 0 {
			return list
		}
	}

	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
