package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "github.com/synthci/synthci/internal/adapter/mocks"
	m "github.com/synthci/synthci/internal/model"
)

func swapTestFileAdapter(t *testing.T) *adaptermocks.MockTestFileAdapter {
	t.Helper()

	mockFiles := adaptermocks.NewMockTestFileAdapter(t)

	original := testFileAdapter
	testFileAdapter = mockFiles

	t.Cleanup(func() { testFileAdapter = original })

	return mockFiles
}

func TestValidateCmd_ListsTests(t *testing.T) {
	mockFiles := swapTestFileAdapter(t)

	mockFiles.On("LoadTests", mock.Anything, m.Path("e2e/login.synthetics.json")).Return([]m.TestEntry{
		{PublicID: "aaa-aaa-aaa", Overrides: m.TestOverrides{ExecutionRule: m.RuleNonBlocking, StartURL: "https://staging.example.com"}},
		{PublicID: "bbb-bbb-bbb", Overrides: m.TestOverrides{Variables: map[string]string{"USER": "ci"}}},
	}, nil)

	cmd, out, _ := newTestRootCmd(newValidateCmd())
	cmd.SetArgs(withLogFile(t, "validate", "e2e/login.synthetics.json"))

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, out.String(), "aaa-aaa-aaa")
	assert.Contains(t, out.String(), "non_blocking")
	assert.Contains(t, out.String(), "startUrl=https://staging.example.com")
	assert.Contains(t, out.String(), "variables=USER")
}

func TestValidateCmd_UsesConfiguredPatterns(t *testing.T) {
	mockFiles := swapTestFileAdapter(t)

	mockFiles.On("FindFiles", mock.Anything, m.Path("."), []string{"**/*.synthetics.json"}).Return([]m.Path{"a.synthetics.json"}, nil)
	mockFiles.On("LoadTests", mock.Anything, m.Path("a.synthetics.json")).Return([]m.TestEntry{{PublicID: "aaa-aaa-aaa"}}, nil)

	cmd, out, _ := newTestRootCmd(newValidateCmd())
	cmd.SetArgs(withLogFile(t, "validate"))

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "a.synthetics.json")
}

func TestValidateCmd_NoFiles(t *testing.T) {
	mockFiles := swapTestFileAdapter(t)

	mockFiles.On("FindFiles", mock.Anything, m.Path("."), mock.Anything).Return(nil, nil)

	cmd, out, _ := newTestRootCmd(newValidateCmd())
	cmd.SetArgs(withLogFile(t, "validate"))

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No test files found.")
}

func TestValidateCmd_InvalidFile(t *testing.T) {
	mockFiles := swapTestFileAdapter(t)

	mockFiles.On("LoadTests", mock.Anything, m.Path("good.json")).Return([]m.TestEntry{{PublicID: "aaa-aaa-aaa"}}, nil)
	mockFiles.On("LoadTests", mock.Anything, m.Path("bad.json")).Return(nil, errors.New("tests/0/id: does not match pattern"))

	cmd, out, errOut := newTestRootCmd(newValidateCmd())
	cmd.SetArgs(withLogFile(t, "validate", "good.json", "bad.json"))

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 invalid test file(s)")
	assert.Contains(t, errOut.String(), "bad.json: tests/0/id")
	assert.Contains(t, out.String(), "aaa-aaa-aaa")
}

func TestDescribeOverrides(t *testing.T) {
	assert.Equal(t, "", describeOverrides(m.TestOverrides{}))
	assert.Equal(t,
		"startUrl=https://x.test variables=A,B locations=aws:eu-west-1",
		describeOverrides(m.TestOverrides{
			StartURL:  "https://x.test",
			Variables: map[string]string{"B": "2", "A": "1"},
			Locations: []string{"aws:eu-west-1"},
		}))
}
