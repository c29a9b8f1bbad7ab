package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/synthci/synthci/internal/model"
)

// newTestRootCmd builds a root command with fresh flags and the given
// subcommands, writing to buffers.
func newTestRootCmd(subcommands ...*cobra.Command) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := newRootCmd()
	configureRootFlags(cmd)
	cmd.AddCommand(subcommands...)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	return cmd, out, errOut
}

// withLogFile keeps the test log out of the working directory.
func withLogFile(t *testing.T, args ...string) []string {
	t.Helper()

	return append(args, "--log-file", filepath.Join(t.TempDir(), "synthci.log"))
}

func TestParsePaths(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []m.Path
	}{
		{"empty", []string{}, []m.Path{}},
		{"single", []string{"a.synthetics.json"}, []m.Path{m.Path("a.synthetics.json")}},
		{
			"multiple",
			[]string{"e2e/a.json", "e2e/b.yaml", "smoke.yml"},
			[]m.Path{m.Path("e2e/a.json"), m.Path("e2e/b.yaml"), m.Path("smoke.yml")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePaths(tt.args)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "synthci", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd, out, _ := newTestRootCmd()
	cmd.SetArgs(withLogFile(t))

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "Tests are selected, by precedence")
	assert.Contains(t, out.String(), "--config")
}

// resetConfigFile restores the default config file once a test pointed
// viper at another one.
func resetConfigFile(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	})
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	resetConfigFile(t)

	cmd, _, _ := newTestRootCmd(newVersionCmd())
	cmd.SetArgs(withLogFile(t, "version", "--config", filepath.Join(t.TempDir(), "missing.yaml")))

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestRootCmd_ConfigFlagDoesNotLeak(t *testing.T) {
	resetConfigFile(t)

	first, _, _ := newTestRootCmd(newVersionCmd())
	first.SetArgs(withLogFile(t, "version", "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, first.Execute())

	second, out, _ := newTestRootCmd(newVersionCmd())
	second.SetArgs(withLogFile(t, "version"))

	require.NoError(t, second.Execute())
	assert.Contains(t, out.String(), toolName)
	assert.Empty(t, second.PersistentFlags().Lookup("config").DefValue)
}

func TestInit(t *testing.T) {
	// Test that init() created all the necessary instances
	assert.NotNil(t, reporter)
	assert.NotNil(t, actionOutput)
	assert.NotNil(t, testFileAdapter)
	assert.NotNil(t, executor)
	assert.NotNil(t, orchestrator)
}

func TestNewSyntheticsAPI(t *testing.T) {
	api := newSyntheticsAPI(m.RunConfig{DatadogSite: "datadoghq.eu", APIKey: "api", AppKey: "app"})
	assert.NotNil(t, api)
}

func TestExecute_WithError(t *testing.T) {
	originalRootCmd := rootCmd
	defer func() {
		rootCmd = originalRootCmd
	}()

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("command failed")
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	// Execute would call os.Exit(1), so only check the command errors.
	err := rootCmd.Execute()
	require.Error(t, err)
}

func TestExecute_ProcessLevel_Success(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Println("success")
				return nil
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Success")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS=1")
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "success")
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute() // This should call os.Exit(1)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)

	if exitErr, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitErr.ExitCode())
	} else {
		assert.Fail(t, "expected exec.ExitError", "got %T", err)
	}

	assert.Contains(t, string(output), "error occurred")
}
