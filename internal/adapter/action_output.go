package adapter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/acarl005/stripansi"
	"github.com/google/uuid"
)

const (
	githubOutputEnv      = "GITHUB_OUTPUT"
	githubStepSummaryEnv = "GITHUB_STEP_SUMMARY"
)

// ActionOutput is the CI platform's output mechanism: named step outputs,
// a failure signal and plain log lines.
type ActionOutput interface {
	// SetOutput publishes a named step output.
	SetOutput(name string, value any) error
	// SetFailed marks the step as failed with message.
	SetFailed(message string)
	// Info writes a log line.
	Info(message string)
	// AppendSummary appends markdown to the job summary, when supported.
	AppendSummary(markdown string) error
}

// GitHubActionOutput implements ActionOutput with GitHub Actions file
// commands and workflow commands.
type GitHubActionOutput struct {
	out          io.Writer
	outputPath   string
	summaryPath  string
	newDelimiter func() string

	mu sync.Mutex
}

// NewGitHubActionOutput creates a GitHubActionOutput writing log lines to out
// and reading the file command paths from the environment.
func NewGitHubActionOutput(out io.Writer) *GitHubActionOutput {
	return NewGitHubActionOutputWithFiles(out, os.Getenv(githubOutputEnv), os.Getenv(githubStepSummaryEnv))
}

// NewGitHubActionOutputWithFiles creates a GitHubActionOutput using explicit
// output and step summary file paths. Empty paths disable the file commands.
func NewGitHubActionOutputWithFiles(out io.Writer, outputPath, summaryPath string) *GitHubActionOutput {
	return &GitHubActionOutput{
		out:         out,
		outputPath:  outputPath,
		summaryPath: summaryPath,
		newDelimiter: func() string {
			return "ghadelimiter_" + uuid.NewString()
		},
	}
}

// SetOutput implements ActionOutput.
func (g *GitHubActionOutput) SetOutput(name string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	text, err := toCommandValue(value)
	if err != nil {
		return fmt.Errorf("failed to encode output %q: %w", name, err)
	}

	if g.outputPath == "" {
		_, err := fmt.Fprintf(g.out, "\n::set-output name=%s::%s\n", escapeProperty(name), escapeData(text))
		return err
	}

	message, err := keyValueMessage(name, text, g.newDelimiter())
	if err != nil {
		return err
	}

	return appendToFile(g.outputPath, message+"\n")
}

// SetFailed implements ActionOutput.
func (g *GitHubActionOutput) SetFailed(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, _ = fmt.Fprintf(g.out, "::error::%s\n", escapeData(stripansi.Strip(message)))
}

// Info implements ActionOutput.
func (g *GitHubActionOutput) Info(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, _ = fmt.Fprintln(g.out, message)
}

// AppendSummary implements ActionOutput.
func (g *GitHubActionOutput) AppendSummary(markdown string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.summaryPath == "" {
		return nil
	}

	return appendToFile(g.summaryPath, stripansi.Strip(markdown)+"\n")
}

func toCommandValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

func keyValueMessage(key, value, delimiter string) (string, error) {
	if strings.Contains(key, delimiter) {
		return "", fmt.Errorf("unexpected input: name should not contain the delimiter %q", delimiter)
	}

	if strings.Contains(value, delimiter) {
		return "", fmt.Errorf("unexpected input: value should not contain the delimiter %q", delimiter)
	}

	return key + "<<" + delimiter + "\n" + value + "\n" + delimiter, nil
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")

	return strings.ReplaceAll(s, "\n", "%0A")
}

func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")

	return strings.ReplaceAll(s, ",", "%2C")
}

func appendToFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
