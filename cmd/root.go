// =============================================================================
// Sales Sync - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesync)
//   ├── ingestCmd   (salesync ingest)
//   ├── reportCmd   (salesync report)
//   ├── outletsCmd  (salesync outlets unmapped|import)
//   ├── migrateCmd  (salesync migrate)
//   └── versionCmd  (salesync version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose) and the
//   helpers every command uses to load configuration, build the logger and
//   open the database.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesync/internal/config"
	"github.com/ginjaninja78/salesync/internal/store"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging regardless of the configured level.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesync",
	Short: "Sales Sync - Distributor sales ingestion and reconciliation",
	Long: `Sales Sync ingests the periodic sales extracts of several distributors,
normalizes them into one canonical transaction shape, keeps the outlet registry
up to date and produces the enriched sales report and the unmatched-outlet
report.

Example Usage:
  salesync ingest --distributor ALL       # Ingest every configured extract
  salesync ingest --distributor APL       # Ingest one distributor
  salesync report --format xlsx           # Build reports and submit the ledger
  salesync outlets import --file map.csv  # Apply outlet reconciliation links`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// runtimeEnv bundles what a command needs after startup.
type runtimeEnv struct {
	cfg    *config.MainConfig
	logger *logrus.Logger
	close  func() error
}

// loadRuntime loads the main configuration and builds the logger.
func loadRuntime() (*runtimeEnv, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, closer, err := config.NewLogger(level, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	return &runtimeEnv{cfg: cfg, logger: logger, close: closer}, nil
}

// openStore connects to the database described by the environment.
func openStore(ctx context.Context, logger logrus.FieldLogger) (*store.Store, error) {
	dbCfg := config.DatabaseConfigFromEnv()
	logger.WithField("database", dbCfg.String()).Debug("connecting to database")
	return store.Open(ctx, dbCfg, logger)
}
