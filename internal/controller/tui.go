package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	m "github.com/synthci/synthci/internal/model"
)

// TUIReporter implements Reporter with a Bubble Tea spinner while results are
// pending. Final results and the summary are printed like SimpleReporter.
type TUIReporter struct {
	out    io.Writer
	simple *SimpleReporter
	styles styles

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter(out io.Writer) *TUIReporter {
	return &TUIReporter{
		out:    out,
		simple: NewSimpleReporter(out),
		styles: newStyles(out),
	}
}

// Log prints a message above the spinner when it is running.
func (t *TUIReporter) Log(ctx context.Context, message string) {
	if t.println(message) {
		return
	}

	t.simple.Log(ctx, message)
}

// Warn prints a warning above the spinner when it is running.
func (t *TUIReporter) Warn(ctx context.Context, message string) {
	if t.println(t.styles.warn.Render("Warning:") + " " + message) {
		return
	}

	t.simple.Warn(ctx, message)
}

// Error prints an error above the spinner when it is running.
func (t *TUIReporter) Error(ctx context.Context, message string) {
	if t.println(t.styles.failed.Render(message)) {
		return
	}

	t.simple.Error(ctx, message)
}

// TestsTriggered prints the triggered tests and starts the spinner.
func (t *TUIReporter) TestsTriggered(ctx context.Context, tests []m.Test, batchID string, baseURL string) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.simple.TestsTriggered(ctx, tests, batchID, baseURL)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return
	}

	model := newWaitModel(len(tests), t.styles)
	program := tea.NewProgram(model, tea.WithOutput(t.out), tea.WithInput(nil), tea.WithoutSignalHandler())
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Error("Progress display failed", "error", err)
		}
	}()

	t.program = program
	t.done = done
}

// ResultReceived updates the spinner with a newly received result.
func (t *TUIReporter) ResultReceived(ctx context.Context, result m.Result) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(resultMsg{result: result})
	}
}

// ResultEnd stops the spinner and prints one final result.
func (t *TUIReporter) ResultEnd(ctx context.Context, result m.Result, baseURL string, batchID string) {
	t.stop()
	t.simple.ResultEnd(ctx, result, baseURL, batchID)
}

// RunEnd stops the spinner and prints the run summary.
func (t *TUIReporter) RunEnd(ctx context.Context, summary m.Summary, baseURL string, settings *m.OrgSettings, elapsed time.Duration) {
	t.stop()
	t.simple.RunEnd(ctx, summary, baseURL, settings, elapsed)
}

// Close stops the spinner if it is still running.
func (t *TUIReporter) Close(_ context.Context) {
	t.stop()
}

func (t *TUIReporter) println(message string) bool {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Println(message)

	return true
}

func (t *TUIReporter) stop() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

type resultMsg struct {
	result m.Result
}

// waitModel renders a spinner with the number of results received so far.
type waitModel struct {
	spinner  spinner.Model
	styles   styles
	total    int
	received int
	failed   int
}

func newWaitModel(total int, st styles) waitModel {
	return waitModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  st,
		total:   total,
	}
}

func (w waitModel) Init() tea.Cmd {
	return w.spinner.Tick
}

func (w waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		w.received++
		if msg.result.Outcome.IsFailure() {
			w.failed++
		}

		return w, tea.Println(formatResult(w.styles, msg.result))

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)

		return w, cmd
	}

	return w, nil
}

func (w waitModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Waiting for results: %d/%d received", w.spinner.View(), w.received, w.total)

	if w.failed > 0 {
		b.WriteString(", " + w.styles.failed.Render(fmt.Sprintf("%d failed", w.failed)))
	}

	b.WriteString("\n")

	return b.String()
}
