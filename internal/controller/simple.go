package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	m "github.com/synthci/synthci/internal/model"
)

// SimpleReporter implements Reporter by printing plain lines to a writer.
type SimpleReporter struct {
	out    io.Writer
	styles styles
	mu     sync.Mutex
}

type styles struct {
	passed      lipgloss.Style
	failed      lipgloss.Style
	nonBlocking lipgloss.Style
	warn        lipgloss.Style
	dim         lipgloss.Style
	bold        lipgloss.Style
}

func newStyles(out io.Writer) styles {
	renderer := lipgloss.NewRenderer(out)

	return styles{
		passed:      renderer.NewStyle().Foreground(lipgloss.Color("2")),
		failed:      renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		nonBlocking: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		warn:        renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		dim:         renderer.NewStyle().Faint(true),
		bold:        renderer.NewStyle().Bold(true),
	}
}

// NewSimpleReporter creates a new SimpleReporter.
func NewSimpleReporter(out io.Writer) *SimpleReporter {
	return &SimpleReporter{out: out, styles: newStyles(out)}
}

// Log prints an informational message.
func (s *SimpleReporter) Log(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", message)
}

// Warn prints a warning.
func (s *SimpleReporter) Warn(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s\n", s.styles.warn.Render("Warning:"), message)
}

// Error prints an error message.
func (s *SimpleReporter) Error(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", s.styles.failed.Render(message))
}

// TestsTriggered prints the triggered tests.
func (s *SimpleReporter) TestsTriggered(ctx context.Context, tests []m.Test, batchID string, baseURL string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s", formatTriggered(s.styles, tests, batchID, baseURL))
}

// ResultReceived is a no-op: SimpleReporter only prints final results.
func (s *SimpleReporter) ResultReceived(ctx context.Context, _ m.Result) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// ResultEnd prints one final result.
func (s *SimpleReporter) ResultEnd(ctx context.Context, result m.Result, baseURL string, batchID string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", formatResult(s.styles, result))

	if result.ResultID != "" {
		s.printf("  %s %s\n", s.styles.dim.Render("View test run details:"), m.ResultURL(baseURL, batchID, result))
	}
}

// RunEnd prints the run summary table.
func (s *SimpleReporter) RunEnd(ctx context.Context, summary m.Summary, baseURL string, settings *m.OrgSettings, elapsed time.Duration) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s\n", s.styles.bold.Render("=== REPORT ==="))

	if settings != nil && settings.OnDemandConcurrencyCap > 0 {
		s.printf("Max parallelization configured: %d test(s) running at the same time\n", settings.OnDemandConcurrencyCap)
	}

	s.printf("Took %s\n\n", elapsed.Round(time.Millisecond))
	s.printf("%s", renderSummaryTable(summary))

	if summary.BatchID != "" {
		s.printf("\nView full summary in Datadog: %s\n", m.BatchURL(baseURL, summary.BatchID))
	}
}

// Close is a no-op for SimpleReporter.
func (s *SimpleReporter) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

func (s *SimpleReporter) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.out, format, args...)
}

func formatTriggered(st styles, tests []m.Test, batchID string, baseURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Waiting for %d test result(s)...\n", len(tests))

	for _, test := range tests {
		fmt.Fprintf(&b, "  %s %s %s\n", st.dim.Render("["+test.PublicID+"]"), testName(test), st.dim.Render(m.TestURL(baseURL, test.PublicID)))
	}

	if batchID != "" {
		fmt.Fprintf(&b, "View pending summary in Datadog: %s\n", m.BatchURL(baseURL, batchID))
	}

	return b.String()
}

func formatResult(st styles, result m.Result) string {
	icon, style := outcomeIcon(st, result.Outcome)

	line := fmt.Sprintf("%s %s %s", style.Render(icon), st.dim.Render("["+result.Test.PublicID+"]"), style.Render(testName(result.Test)))

	details := make([]string, 0, 3)
	if result.Location != "" {
		details = append(details, "location: "+result.Location)
	}

	if result.Duration > 0 {
		details = append(details, "total duration: "+result.Duration.Round(time.Millisecond).String())
	}

	if result.TimedOut {
		details = append(details, "timed out")
	}

	if result.Unhealthy {
		details = append(details, "critical error")
	}

	if result.Retries > 0 {
		details = append(details, fmt.Sprintf("retried %d time(s)", result.Retries))
	}

	if result.Outcome == m.OutcomeFailedNonBlocking || result.Outcome == m.OutcomePassedNonBlocking {
		details = append(details, "non-blocking")
	}

	if len(details) > 0 {
		line += " " + st.dim.Render("- "+strings.Join(details, " - "))
	}

	return line
}

func outcomeIcon(st styles, outcome m.Outcome) (string, lipgloss.Style) {
	switch outcome {
	case m.OutcomePassed, m.OutcomePassedNonBlocking:
		return "✓", st.passed
	case m.OutcomeFailedNonBlocking:
		return "⚠", st.nonBlocking
	case m.OutcomeFailed:
		return "✖", st.failed
	default:
		return "?", st.dim
	}
}

func testName(test m.Test) string {
	if test.Name != "" {
		return test.Name
	}

	return test.PublicID
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Outcome", "Tests"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	rows := [][2]string{
		{"Critical errors", fmt.Sprintf("%d", summary.CriticalErrors)},
		{"Passed", fmt.Sprintf("%d", summary.Passed)},
		{"Failed (non-blocking)", fmt.Sprintf("%d", summary.FailedNonBlocking)},
		{"Failed", fmt.Sprintf("%d", summary.Failed)},
		{"Skipped", fmt.Sprintf("%d", summary.Skipped)},
		{"Not found", fmt.Sprintf("%d", summary.NotFoundCount())},
		{"Timed out", fmt.Sprintf("%d", summary.TimedOut)},
	}

	for _, row := range rows {
		table.Append([]string{row[0], row[1]})
	}

	table.Render()

	return tableBuffer.String()
}
