// =============================================================================
// Sales Sync - Report Command
// =============================================================================
//
// This file defines the 'report' command, which builds the full sales report
// and the unmatched-outlet report, then submits the lines to the ledger.
//
// COMMAND USAGE:
//   salesync report [flags]
//
// FLAGS:
//   --from, --to  : Optional invoice date bounds (YYYY-MM-DD, inclusive)
//   --format      : csv or xlsx, overrides report_format
//   --skip-ledger : Write the artifacts only
//
// LEDGER IDS:
//   With redis.enabled the ledger ids come from a Redis counter per legal
//   entity; otherwise they continue from the ledger's MAX(slhid).
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesync/internal/config"
	"github.com/ginjaninja78/salesync/internal/ledger"
	"github.com/ginjaninja78/salesync/internal/report"
	"github.com/ginjaninja78/salesync/internal/store"
)

var (
	reportFrom       string
	reportTo         string
	reportFormat     string
	reportSkipLedger bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the sales reports and submit them to the ledger",
	Long: `The report command joins the stored sales with the outlet, product, panel
and territory tables and writes two artifacts to the reports directory:

  sales_report_<timestamp>               every (invoice, product) line
  sales_unmatched_mkt_outlet_<timestamp> one line per outlet without territory

The lines are then appended to the sales ledger. If any line has no product
mapping the ledger step is skipped entirely and the command reports it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportFrom, "from", "", "First invoice date to include (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "Last invoice date to include (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "Artifact format: csv or xlsx")
	reportCmd.Flags().BoolVar(&reportSkipLedger, "skip-ledger", false, "Write the artifacts without submitting to the ledger")
}

func runReport(ctx context.Context) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	period, err := parsePeriod(reportFrom, reportTo)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, rt.logger)
	if err != nil {
		return err
	}
	defer st.Close()

	seq, closeSeq, err := newSequence(ctx, rt.cfg.Redis, st, rt.logger)
	if err != nil {
		return err
	}
	defer closeSeq()

	submitter := ledger.NewSubmitter(st, seq, rt.logger)
	builder := report.NewBuilder(st, submitter, rt.cfg, rt.logger)

	result, err := builder.Build(ctx, report.Options{
		Period:     period,
		Format:     reportFormat,
		SkipLedger: reportSkipLedger,
	})
	if err != nil {
		return err
	}

	fmt.Println("=== Report Complete ===")
	fmt.Printf("Rows:              %d\n", result.Rows)
	fmt.Printf("Full report:       %s\n", result.FullPath)
	if result.UnmatchedPath != "" {
		fmt.Printf("Unmatched report:  %s (%d lines, %d outlets)\n",
			result.UnmatchedPath, result.UnmatchedCount, result.UnmatchedOutlets)
	}
	if !reportSkipLedger {
		fmt.Printf("Ledger rows:       %d\n", result.LedgerRows)
	}
	fmt.Printf("Time elapsed:      %s\n", result.ProcessingTime)

	if result.LedgerErr != nil {
		return fmt.Errorf("ledger submission: %w", result.LedgerErr)
	}
	return nil
}

// parsePeriod parses the optional --from/--to bounds.
func parsePeriod(from, to string) (store.Period, error) {
	var p store.Period
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return p, fmt.Errorf("invalid --from %q: %w", from, err)
		}
		p.From = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return p, fmt.Errorf("invalid --to %q: %w", to, err)
		}
		p.To = &t
	}
	if p.From != nil && p.To != nil && p.To.Before(*p.From) {
		return p, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return p, nil
}

// newSequence picks the ledger id allocator.
func newSequence(ctx context.Context, cfg config.RedisConfig, st *store.Store, logger logrus.FieldLogger) (ledger.Sequence, func() error, error) {
	if !cfg.Enabled {
		return ledger.NewDBSequence(st), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	logger.WithField("addr", cfg.Addr).Debug("ledger ids allocated from redis")

	return ledger.NewRedisSequence(client, cfg.KeyPrefix, st), client.Close, nil
}
