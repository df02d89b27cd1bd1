// =============================================================================
// Sales Sync - Ingest Command
// =============================================================================
//
// This file defines the 'ingest' command, which runs the ingestion pipeline
// for one distributor or for all of them.
//
// COMMAND USAGE:
//   salesync ingest --distributor APL|PPG|TSJ|ALL [flags]
//
// FLAGS:
//   --distributor : Source to ingest, ALL expands to every distributor
//   --file        : Override the configured extract path (single source only)
//   --dry-run     : Run every step except persistence
//
// PROCESSING:
//   1. Load configuration and connect to the database
//   2. Expand the distributor argument (unknown names are fatal)
//   3. Ingest each source in its own goroutine, bounded by max_concurrency
//   4. Collect results, print a summary and write the summary file
//
//   Sources never share run state or bulk statements. A failing source does
//   not stop the others; the command exits non-zero if any source failed.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesync/internal/ingest"
	"github.com/ginjaninja78/salesync/internal/normalizer"
	"github.com/ginjaninja78/salesync/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	ingestDistributor string
	ingestFile        string
	ingestDryRun      bool
)

// =============================================================================
// INGEST COMMAND DEFINITION
// =============================================================================

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest distributor sales extracts",
	Long: `The ingest command reads the staged extract of each requested distributor,
normalizes its rows, registers new outlets and persists every sale that is not
already stored.

Re-running ingest on the same extract is safe: rows already stored are dropped
before persistence, so no duplicate sales or outlets are created.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(
		&ingestDistributor,
		"distributor",
		"d",
		normalizer.AllDistributors,
		"Distributor to ingest (APL, PPG, TSJ or ALL)",
	)

	ingestCmd.Flags().StringVar(
		&ingestFile,
		"file",
		"",
		"Path to the extract, overriding the configured one (single distributor only)",
	)

	ingestCmd.Flags().BoolVar(
		&ingestDryRun,
		"dry-run",
		false,
		"Run every step except persistence",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runIngest(ctx context.Context) error {
	startTime := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	// =========================================================================
	// STEP 2: EXPAND SOURCES
	// =========================================================================

	distributors, err := normalizer.Expand(ingestDistributor)
	if err != nil {
		return err
	}
	if ingestFile != "" && len(distributors) > 1 {
		return fmt.Errorf("--file needs a single --distributor, got %s", ingestDistributor)
	}

	st, err := openStore(ctx, rt.logger)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Println("=== Sales Sync Ingest ===")
	fmt.Printf("Sources: %v\n", distributors)

	// =========================================================================
	// STEP 3: INGEST SOURCES CONCURRENTLY
	// =========================================================================

	pipeline := ingest.New(st, rt.cfg, rt.logger)

	var wg sync.WaitGroup
	results := make(chan ingest.Result, len(distributors))
	sem := make(chan struct{}, rt.cfg.MaxConcurrency)

	for _, dist := range distributors {
		wg.Add(1)

		go func(dist string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- pipeline.Run(ctx, ingest.Source{
				Distributor: dist,
				File:        ingestFile,
				DryRun:      ingestDryRun,
			})
		}(dist)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS AND GENERATE SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{StartTime: startTime, TotalSources: len(distributors)}

	for result := range results {
		s := result.Stats
		if result.Success {
			summary.SuccessfulSources++
			summary.TotalRows += s.RowsRead
			summary.SkippedRows += s.RowsSkipped
			summary.SalesPersisted += s.SalesPersisted
			summary.OutletsCreated += s.OutletsCreated
			summary.Processed = append(summary.Processed, utils.ProcessedSourceInfo{
				Distributor: result.Distributor,
				InputFile:   result.FilePath,
				Rows:        s.RowsRead,
				Skipped:     s.RowsSkipped,
				Duplicates:  s.DuplicatesExisting + s.DuplicatesInBatch,
				Sales:       s.SalesPersisted,
				Outlets:     s.OutletsCreated,
				ProcessTime: s.ProcessingTime,
			})
			fmt.Printf("  ✓ %s (%s): %d sales, %d outlets\n",
				result.Distributor, filepath.Base(result.FilePath), s.SalesPersisted, s.OutletsCreated)
		} else {
			summary.FailedSources++
			summary.Failed = append(summary.Failed, utils.FailedSourceInfo{
				Distributor:  result.Distributor,
				InputFile:    result.FilePath,
				ErrorMessage: result.Error.Error(),
			})
			fmt.Printf("  ✗ %s: %v\n", result.Distributor, result.Error)
		}
	}
	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	fmt.Println("\n=== Ingest Complete ===")
	fmt.Printf("Total sources:   %d\n", summary.TotalSources)
	fmt.Printf("Successful:      %d\n", summary.SuccessfulSources)
	fmt.Printf("Errors:          %d\n", summary.FailedSources)
	fmt.Printf("Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	if err := utils.EnsureDirectories(rt.cfg.ReportsPath()); err == nil {
		if path, err := utils.WriteSummaryLog(summary, rt.cfg.ReportsPath()); err == nil {
			fmt.Printf("Summary written to %s\n", path)
		} else {
			rt.logger.WithError(err).Warn("failed to write ingest summary")
		}
	}

	if summary.FailedSources > 0 {
		return fmt.Errorf("%d of %d sources failed", summary.FailedSources, summary.TotalSources)
	}
	return nil
}
