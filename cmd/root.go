// Package cmd provides the root command and CLI setup for synthci.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/synthci/synthci/internal/adapter"
	"github.com/synthci/synthci/internal/controller"
	"github.com/synthci/synthci/internal/domain"
	m "github.com/synthci/synthci/internal/model"
)

var testFileAdapter adapter.TestFileAdapter
var actionOutput adapter.ActionOutput
var executor domain.Executor
var orchestrator domain.Orchestrator
var reporter controller.Reporter

// configPathFlag points at a config file to read instead of ./synthci.yaml.
var configPathFlag string

// logFileFlag overrides the log file path.
var logFileFlag string

// verboseFlag enables debug logging.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	reporter = controller.NewReporter(os.Stdout, controller.IsTTY(os.Stdout))
	actionOutput = adapter.NewGitHubActionOutput(os.Stdout)
	testFileAdapter = adapter.NewLocalTestFileAdapter()
	executor = domain.NewExecutor(newSyntheticsAPI, testFileAdapter, m.Path(configFolderPath))
	orchestrator = domain.NewOrchestrator(executor, reporter, actionOutput)
}

// newSyntheticsAPI builds the API client once the credentials are resolved.
func newSyntheticsAPI(cfg m.RunConfig) adapter.SyntheticsAPI {
	return adapter.NewSyntheticsClient(
		cfg.DatadogSite,
		cfg.APIKey,
		cfg.AppKey,
		adapter.WithUserAgent(userAgent()),
	)
}

const testSelectionHelp = `Tests are selected, by precedence, from:
  - public_ids          explicit test public IDs
  - test_search_query   a Synthetics search query
  - files               test files matching glob patterns (default **/*.synthetics.json)`

const rootLongDescription = `Synthci triggers Datadog Synthetic tests from a CI pipeline, waits for
their results and reports them as GitHub Actions step outputs.

Every setting can be given as a flag, as an INPUT_<NAME> environment variable
(the GitHub Actions input convention) or in synthci.yaml.

` + testSelectionHelp

const runLongDescription = `Trigger the selected Synthetic tests, wait for the batch to complete and
set the step outputs. The process exits non-zero when the run fails.

` + testSelectionHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "synthci",
		Short: "Run Datadog Synthetic tests in CI",
		Long:  rootLongDescription,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := loadConfigFile(viper.GetString(configPathKey)); err != nil {
				return err
			}

			configureLogger(logFileFlag, verboseFlag)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	// No flag default: INPUT_CONFIG_PATH and the config file feed the key through viper.
	cmd.PersistentFlags().StringVarP(&configPathFlag, "config", "c", "", "path to a config file (default ./"+configFileName+")")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("config"), configPathKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "log file path (default "+defaultLogFilename+")")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
