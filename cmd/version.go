package cmd

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const (
	toolName       = "synthci"
	unknownVersion = "(devel)"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the synthci build version and the Go version it was built with.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", toolName, buildVersion())
			cmd.Printf("go %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildVersion is the module version stamped by the Go toolchain.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return unknownVersion
	}

	return info.Main.Version
}

// userAgent identifies API requests with the build version.
func userAgent() string {
	return toolName + "/" + buildVersion()
}
