package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/synthci/synthci/internal/model"
)

const validateLongDescription = `Validate test files against the test file schema and list the tests they
declare. Without arguments, the files matching the configured patterns are
validated.`

// validateCmd represents the validate command.
var validateCmd = newValidateCmd()

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate Synthetic test files",
		Long:  validateLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()

			files := parsePaths(args)
			if len(files) == 0 {
				found, err := testFileAdapter.FindFiles(ctx, m.Path(configFolderPath), configList(filesKey))
				if err != nil {
					return err
				}

				files = found
			}

			if len(files) == 0 {
				cmd.Println("No test files found.")
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"File", "Public ID", "Execution rule", "Overrides"})
			table.SetAutoMergeCells(true)
			table.SetRowLine(false)

			invalid := 0

			for _, file := range files {
				entries, err := testFileAdapter.LoadTests(ctx, file)
				if err != nil {
					invalid++

					cmd.PrintErrf("%s: %v\n", file, err)

					continue
				}

				for _, entry := range entries {
					table.Append([]string{string(file), entry.PublicID, string(entry.Overrides.ExecutionRule), describeOverrides(entry.Overrides)})
				}
			}

			table.Render()

			if invalid > 0 {
				return fmt.Errorf("%d invalid test file(s)", invalid)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func describeOverrides(overrides m.TestOverrides) string {
	parts := make([]string, 0, 3)

	if overrides.StartURL != "" {
		parts = append(parts, "startUrl="+overrides.StartURL)
	}

	if len(overrides.Variables) > 0 {
		parts = append(parts, "variables="+strings.Join(sortedVariableNames(overrides.Variables), ","))
	}

	if len(overrides.Locations) > 0 {
		parts = append(parts, "locations="+strings.Join(overrides.Locations, ","))
	}

	return strings.Join(parts, " ")
}
