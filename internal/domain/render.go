package domain

import (
	"context"
	"sort"
	"time"

	"github.com/synthci/synthci/internal/controller"
	m "github.com/synthci/synthci/internal/model"
)

// RenderResults displays every result, failures first, followed by the run
// summary.
func RenderResults(
	ctx context.Context,
	reporter controller.Reporter,
	cfg m.RunConfig,
	settings *m.OrgSettings,
	run m.RunResult,
	startTime time.Time,
	endTime time.Time,
) {
	baseURL := m.AppBaseURL(cfg)

	for _, result := range sortResults(run.Results) {
		reporter.ResultEnd(ctx, result, baseURL, run.Summary.BatchID)
	}

	reporter.RunEnd(ctx, run.Summary, baseURL, settings, endTime.Sub(startTime))
}

func sortResults(results []m.Result) []m.Result {
	sorted := make([]m.Result, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Outcome != sorted[j].Outcome {
			return sorted[i].Outcome > sorted[j].Outcome
		}

		return sorted[i].Test.Name < sorted[j].Test.Name
	})

	return sorted
}
