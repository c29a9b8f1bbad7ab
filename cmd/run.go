package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/synthci/synthci/internal/domain"
)

var (
	apiKeyFlag               string
	appKeyFlag               string
	datadogSiteFlag          string
	subdomainFlag            string
	publicIDsFlag            []string
	testSearchQueryFlag      string
	filesFlag                []string
	variablesFlag            []string
	locationsFlag            []string
	batchTimeoutFlag         string
	pollingIntervalFlag      string
	failOnCriticalErrorsFlag bool
	failOnMissingTestsFlag   bool
	failOnTimeoutFlag        bool
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run Datadog Synthetic tests",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			cfg, err := resolveConfig()
			if err != nil {
				actionOutput.SetFailed("Invalid configuration: " + err.Error())
				return fmt.Errorf("invalid configuration: %w", err)
			}

			slog.SetDefault(slog.Default().With("runID", uuid.NewString()))
			slog.Info("Starting Synthetics run",
				"selection", cfg.Selection(),
				"site", cfg.DatadogSite,
				"variables", sortedVariableNames(cfg.Variables),
				"batchTimeout", cfg.BatchTimeout,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outputs, err := orchestrator.Run(ctx, cfg)
			slog.Info("Synthetics run finished", "result", outputs.Result, "resultsUrl", outputs.ResultsURL)

			if errors.Is(err, domain.ErrRunFailed) {
				// Already reported to the CI platform.
				cmd.SilenceErrors = true
			}

			return err
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVar(&apiKeyFlag, "api-key", "", "Datadog API key (env INPUT_API_KEY or DATADOG_API_KEY)")
	bindFlagToConfig(flags.Lookup("api-key"), apiKeyKey)

	flags.StringVar(&appKeyFlag, "app-key", "", "Datadog application key (env INPUT_APP_KEY or DATADOG_APP_KEY)")
	bindFlagToConfig(flags.Lookup("app-key"), appKeyKey)

	flags.StringVar(&datadogSiteFlag, "site", viper.GetString(datadogSiteKey), "Datadog site")
	bindFlagToConfig(flags.Lookup("site"), datadogSiteKey)

	flags.StringVar(&subdomainFlag, "subdomain", viper.GetString(subdomainKey), "custom subdomain of the Datadog app")
	bindFlagToConfig(flags.Lookup("subdomain"), subdomainKey)

	flags.StringSliceVarP(&publicIDsFlag, "public-id", "p", nil, "public ID of a test to run (can be repeated)")
	bindFlagToConfig(flags.Lookup("public-id"), publicIDsKey)

	flags.StringVarP(&testSearchQueryFlag, "search", "s", "", "run the tests matching a search query")
	bindFlagToConfig(flags.Lookup("search"), testSearchQueryKey)

	flags.StringSliceVarP(&filesFlag, "files", "f", viper.GetStringSlice(filesKey), "glob patterns of test files")
	bindFlagToConfig(flags.Lookup("files"), filesKey)

	flags.StringArrayVar(&variablesFlag, "variable", nil, "KEY=value variable passed to every test (can be repeated)")
	bindFlagToConfig(flags.Lookup("variable"), variablesKey)

	flags.StringSliceVar(&locationsFlag, "location", nil, "location to run every test from (can be repeated)")
	bindFlagToConfig(flags.Lookup("location"), locationsKey)

	flags.StringVar(&batchTimeoutFlag, "batch-timeout", viper.GetString(batchTimeoutKey), "maximum time to wait for the batch (duration or milliseconds)")
	bindFlagToConfig(flags.Lookup("batch-timeout"), batchTimeoutKey)

	flags.StringVar(&pollingIntervalFlag, "polling-interval", viper.GetString(pollingIntervalKey), "time between two batch polls (duration or milliseconds)")
	bindFlagToConfig(flags.Lookup("polling-interval"), pollingIntervalKey)

	flags.BoolVar(&failOnCriticalErrorsFlag, "fail-on-critical-errors", viper.GetBool(failOnCriticalErrorsKey), "fail the run on critical errors")
	bindFlagToConfig(flags.Lookup("fail-on-critical-errors"), failOnCriticalErrorsKey)

	flags.BoolVar(&failOnMissingTestsFlag, "fail-on-missing-tests", viper.GetBool(failOnMissingTestsKey), "fail the run when a test is not found")
	bindFlagToConfig(flags.Lookup("fail-on-missing-tests"), failOnMissingTestsKey)

	flags.BoolVar(&failOnTimeoutFlag, "fail-on-timeout", viper.GetBool(failOnTimeoutKey), "fail the run when the batch times out")
	bindFlagToConfig(flags.Lookup("fail-on-timeout"), failOnTimeoutKey)
}
