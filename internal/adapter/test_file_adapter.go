package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	m "github.com/synthci/synthci/internal/model"
	"github.com/synthci/synthci/internal/schema"
)

// TestFileAdapter discovers and decodes Synthetic test files.
type TestFileAdapter interface {
	// FindFiles returns the files under root matching any of the glob
	// patterns. Patterns use forward slashes and support "**" and braces.
	FindFiles(ctx context.Context, root m.Path, patterns []string) ([]m.Path, error)
	// LoadTests decodes and validates a test file.
	LoadTests(ctx context.Context, file m.Path) ([]m.TestEntry, error)
}

// LocalTestFileAdapter reads test files from the local file system.
type LocalTestFileAdapter struct{}

// NewLocalTestFileAdapter constructs a LocalTestFileAdapter.
func NewLocalTestFileAdapter() *LocalTestFileAdapter {
	return &LocalTestFileAdapter{}
}

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

type testFile struct {
	Tests []struct {
		ID            string          `json:"id"            yaml:"id"`
		TestOverrides m.TestOverrides `json:"testOverrides" yaml:"testOverrides"`
	} `json:"tests" yaml:"tests"`
}

// FindFiles implements TestFileAdapter.
func (a *LocalTestFileAdapter) FindFiles(ctx context.Context, root m.Path, patterns []string) ([]m.Path, error) {
	rootStr := string(root)
	if rootStr == "" {
		rootStr = "."
	}

	patterns, err := normalizePatterns(patterns)
	if err != nil {
		return nil, err
	}

	var files []m.Path

	err = filepath.WalkDir(rootStr, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if p != rootStr && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}

			return nil
		}

		rel, err := filepath.Rel(rootStr, p)
		if err != nil {
			return err
		}

		if matchesAny(patterns, filepath.ToSlash(rel)) {
			files = append(files, m.Path(p))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search test files in %s: %w", rootStr, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

// LoadTests implements TestFileAdapter.
func (a *LocalTestFileAdapter) LoadTests(ctx context.Context, file m.Path) ([]m.TestEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(string(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read test file: %w", err)
	}

	decoded, err := decodeTestFile(string(file), data)
	if err != nil {
		return nil, err
	}

	entries := make([]m.TestEntry, 0, len(decoded.Tests))
	for _, test := range decoded.Tests {
		entries = append(entries, m.TestEntry{
			PublicID:  test.ID,
			Overrides: test.TestOverrides,
		})
	}

	return entries, nil
}

func decodeTestFile(name string, data []byte) (testFile, error) {
	var (
		doc     any
		decoded testFile
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return testFile{}, fmt.Errorf("invalid YAML in %s: %w", name, err)
		}

		if err := schema.ValidateTestFile(doc); err != nil {
			return testFile{}, fmt.Errorf("%s: %w", name, err)
		}

		if err := yaml.Unmarshal(data, &decoded); err != nil {
			return testFile{}, fmt.Errorf("invalid YAML in %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return testFile{}, fmt.Errorf("invalid JSON in %s: %w", name, err)
		}

		if err := schema.ValidateTestFile(doc); err != nil {
			return testFile{}, fmt.Errorf("%s: %w", name, err)
		}

		if err := json.Unmarshal(data, &decoded); err != nil {
			return testFile{}, fmt.Errorf("invalid JSON in %s: %w", name, err)
		}
	}

	return decoded, nil
}

// normalizePatterns strips a leading "./" and rejects malformed patterns.
func normalizePatterns(patterns []string) ([]string, error) {
	normalized := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pattern, "./")
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}

		normalized = append(normalized, pattern)
	}

	return normalized, nil
}

// matchesAny reports whether the slash-separated name matches one of the
// already validated patterns.
func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, name) {
			return true
		}
	}

	return false
}
