package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "github.com/synthci/synthci/internal/model"
)

// ErrorReport is the report output used when the tests could not be executed.
const ErrorReport = "Error executing tests"

// PrintSummary formats the one-line outcome counts followed by the batch
// results URL.
func PrintSummary(summary m.Summary, cfg m.RunConfig) string {
	batchURL := m.BatchURL(m.AppBaseURL(cfg), summary.BatchID)

	return fmt.Sprintf(
		"criticalErrors: %d, passed: %d, failedNonBlocking: %d, failed: %d, skipped: %d, notFound: %d, timedOut: %d\n"+
			"Results URL: %s",
		summary.CriticalErrors,
		summary.Passed,
		summary.FailedNonBlocking,
		summary.Failed,
		summary.Skipped,
		summary.NotFoundCount(),
		summary.TimedOut,
		batchURL,
	)
}

// RenderMarkdownSummary renders the job summary shown on the CI run page.
func RenderMarkdownSummary(summary m.Summary, reason m.ExitReason, batchURL string) string {
	var b strings.Builder

	b.WriteString("## Datadog Synthetics\n\n")
	fmt.Fprintf(&b, "Result: **%s**\n\n", m.ResultFor(reason))

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetAutoFormatHeaders(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetHeader([]string{"Critical errors", "Passed", "Failed (non-blocking)", "Failed", "Skipped", "Not found", "Timed out"})
	table.Append([]string{
		fmt.Sprintf("%d", summary.CriticalErrors),
		fmt.Sprintf("%d", summary.Passed),
		fmt.Sprintf("%d", summary.FailedNonBlocking),
		fmt.Sprintf("%d", summary.Failed),
		fmt.Sprintf("%d", summary.Skipped),
		fmt.Sprintf("%d", summary.NotFoundCount()),
		fmt.Sprintf("%d", summary.TimedOut),
	})
	table.Render()

	b.WriteString(tableBuffer.String())

	if summary.BatchID != "" {
		fmt.Fprintf(&b, "\n[View results in Datadog](%s)\n", batchURL)
	}

	return b.String()
}
