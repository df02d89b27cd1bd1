// =============================================================================
// Sales Sync - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version and build information.
//
// COMMAND USAGE:
//   salesync version
//
// OUTPUT:
//   Sales Sync
//   Version:    1.0.0
//   Commit:     3f2c9ab
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/salesync/cmd.Version=1.0.0' \
//     -X 'github.com/ginjaninja78/salesync/cmd.Commit=$(git rev-parse --short HEAD)' \
//     -X 'github.com/ginjaninja78/salesync/cmd.BuildDate=$(date +%F)'"

// Version is the application version.
// Set at build time using ldflags.
var Version = "1.0.0"

// Commit is the source revision the binary was built from.
var Commit = "unknown"

// BuildDate is the date the application was built.
// Set at build time using ldflags.
var BuildDate = "unknown"

// =============================================================================
// VERSION COMMAND DEFINITION
// =============================================================================

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, source commit, build date, and Go runtime version.`,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

// printVersion writes the build information to w.
func printVersion(w io.Writer) {
	fmt.Fprintln(w, "Sales Sync")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Commit:     %s\n", Commit)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the version command with the root command.
func init() {
	rootCmd.AddCommand(versionCmd)
}
