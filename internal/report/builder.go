// =============================================================================
// Sales Sync - Report Builder
// =============================================================================
//
// This module turns the persisted sales into the two report artifacts and
// then hands the same lines to the ledger.
//
// REPORT PIPELINE:
//   1. Read the joined report rows for the period
//   2. Derive discount amount, discount percentage and unit net price
//   3. Write the full report
//   4. Write the unmatched-outlet report (only when something is unmatched)
//   5. Submit the lines to the ledger, once, after both artifacts exist
//
// A failed ledger submission does not remove the artifacts; it is reported
// on the Result so the caller can decide what to do.
//
// =============================================================================

package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/salesync/internal/config"
	"github.com/ginjaninja78/salesync/internal/outlet"
	"github.com/ginjaninja78/salesync/internal/store"
	"github.com/ginjaninja78/salesync/internal/types"
	"github.com/ginjaninja78/salesync/pkg/utils"
)

// RowSource reads the joined report rows.
type RowSource interface {
	ReportRows(ctx context.Context, period store.Period) ([]types.ReportRow, error)
}

// LedgerSubmitter writes report lines to the long-term ledger.
type LedgerSubmitter interface {
	Submit(ctx context.Context, lines []types.ReportLine) (int, error)
}

// Options controls one report run.
type Options struct {
	Period store.Period

	// Format overrides the configured report format when set.
	Format string

	// SkipLedger writes the artifacts without submitting to the ledger.
	SkipLedger bool
}

// Result describes one report run.
type Result struct {
	RunID string

	FullPath      string
	UnmatchedPath string

	Rows int

	// UnmatchedCount counts unmatched lines before dedup, UnmatchedOutlets
	// after.
	UnmatchedCount   int
	UnmatchedOutlets int

	LedgerRows int
	LedgerErr  error

	ProcessingTime time.Duration
}

// Builder produces report artifacts.
type Builder struct {
	source    RowSource
	submitter LedgerSubmitter
	cfg       *config.MainConfig
	logger    logrus.FieldLogger

	loadDetails func(path string) (map[string]outlet.Detail, error)
	now         func() time.Time
}

// NewBuilder creates a report builder. submitter may be nil, in which case
// every run behaves as if SkipLedger were set.
func NewBuilder(source RowSource, submitter LedgerSubmitter, cfg *config.MainConfig, logger logrus.FieldLogger) *Builder {
	return &Builder{
		source:      source,
		submitter:   submitter,
		cfg:         cfg,
		logger:      logger.WithField("module", "report"),
		loadDetails: outlet.LoadDetails,
		now:         time.Now,
	}
}

// Build runs the report pipeline.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	start := b.now()
	result := &Result{RunID: uuid.New().String()}
	log := b.logger.WithField("run_id", result.RunID)

	format := opts.Format
	if format == "" {
		format = b.cfg.ReportFormat
	}

	// =========================================================================
	// STEP 1: READ
	// =========================================================================

	rows, err := b.source.ReportRows(ctx, opts.Period)
	if err != nil {
		return nil, fmt.Errorf("read report rows: %w", err)
	}
	result.Rows = len(rows)

	// =========================================================================
	// STEP 2: DERIVE
	// =========================================================================

	lines := Derive(rows)

	// =========================================================================
	// STEP 3: FULL REPORT
	// =========================================================================

	reportsDir := b.cfg.ReportsPath()
	if err := utils.EnsureDirectories(reportsDir); err != nil {
		return nil, err
	}

	timestamp := map[string]string{"timestamp": start.Format("20060102_1504")}
	result.FullPath = filepath.Join(reportsDir, utils.GenerateOutputFileName(b.cfg.ReportNameFormat, format, timestamp))
	if err := WriteSheet(result.FullPath, format, FullSheet(lines)); err != nil {
		return nil, fmt.Errorf("write full report: %w", err)
	}
	log.WithFields(logrus.Fields{"path": result.FullPath, "rows": len(lines)}).Info("full report written")

	// =========================================================================
	// STEP 4: UNMATCHED REPORT
	// =========================================================================

	result.UnmatchedCount = CountUnmatched(lines)
	if unmatched := Unmatched(lines); len(unmatched) > 0 {
		result.UnmatchedOutlets = len(unmatched)
		result.UnmatchedPath = filepath.Join(reportsDir, utils.GenerateOutputFileName(b.cfg.UnmatchedNameFormat, format, timestamp))

		details := b.details(log)
		if err := WriteSheet(result.UnmatchedPath, format, UnmatchedSheet(unmatched, details, b.cfg.OutletTypes)); err != nil {
			return nil, fmt.Errorf("write unmatched report: %w", err)
		}
		log.WithFields(logrus.Fields{
			"path":    result.UnmatchedPath,
			"lines":   result.UnmatchedCount,
			"outlets": result.UnmatchedOutlets,
		}).Warn("unmatched outlets found")
	}

	// =========================================================================
	// STEP 5: LEDGER
	// =========================================================================

	if !opts.SkipLedger && b.submitter != nil {
		n, err := b.submitter.Submit(ctx, lines)
		result.LedgerRows = n
		if err != nil {
			result.LedgerErr = err
			config.LogError(log, "report", "Build", "ledger submission failed", len(lines), err)
		}
	}

	result.ProcessingTime = b.now().Sub(start)
	return result, nil
}

// details loads the outlet-detail companion for enrichment. It is optional:
// a missing or unreadable file only downgrades the unmatched report.
func (b *Builder) details(log logrus.FieldLogger) map[string]outlet.Detail {
	path, err := b.cfg.SourcePath(config.OutletDetailKey)
	if err != nil {
		return nil
	}
	details, err := b.loadDetails(path)
	if err != nil {
		log.WithError(err).Warn("outlet details unavailable, unmatched report not enriched")
		return nil
	}
	return details
}
