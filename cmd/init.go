package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default synthci.yaml configuration file",
		Long: `Create a synthci.yaml in the current working directory populated with the
default settings so it can be edited manually. Credentials are never written:
pass them through DATADOG_API_KEY and DATADOG_APP_KEY instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			defaults := viper.New()
			for key, value := range configDefaults() {
				defaults.Set(key, value)
			}

			if err := defaults.SafeWriteConfigAs(targetPath); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
