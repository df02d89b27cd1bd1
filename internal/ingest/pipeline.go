// =============================================================================
// Sales Sync - Ingestion Pipeline
// =============================================================================
//
// This module ingests one distributor extract end to end. One call to Run is
// one unit of work; everything it decides lives in a RunState that is never
// shared with another source.
//
// INGESTION PIPELINE:
//   1. Resolve the staged file and its kind
//   2. Decode the file into an ordered table
//   3. Normalize the row window into canonical transactions
//   4. Load the run state (existing sale keys for the batch's invoices,
//      existing outlet codes, outlet-detail companion if configured)
//   5. For each transaction: resolve its outlet, then pass the dedup gate
//   6. Persist accepted sales and staged outlets as one atomic batch
//
// FAILURE ISOLATION:
//   Any error before step 6 aborts this source only. Row-level problems are
//   logged and skipped. Persistence errors are returned as-is; re-running is
//   safe because step 5 drops everything already stored.
//
// =============================================================================

package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/salesync/internal/config"
	"github.com/ginjaninja78/salesync/internal/dedup"
	"github.com/ginjaninja78/salesync/internal/normalizer"
	"github.com/ginjaninja78/salesync/internal/outlet"
	"github.com/ginjaninja78/salesync/internal/reader"
	"github.com/ginjaninja78/salesync/internal/store"
	"github.com/ginjaninja78/salesync/internal/types"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of ingesting one source.
type Result struct {
	// RunID correlates every log line of this run.
	RunID string

	Distributor string

	// FilePath is the extract that was read.
	FilePath string

	Success bool
	Error   error

	Stats ProcessingStats
}

// ProcessingStats contains counters for one run.
type ProcessingStats struct {
	RowsRead         int
	RowsNormalized   int
	RowsSkipped      int
	UnrecognizedArea int

	DuplicatesExisting int
	DuplicatesInBatch  int

	SalesPersisted       int
	OutletsCreated       int
	OutletsMissingDetail int

	ProcessingTime time.Duration
}

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Store is the slice of the relational store ingestion needs.
type Store interface {
	ExistingSaleKeys(ctx context.Context, invoiceNos []string) (map[types.SaleKey]struct{}, error)
	ExistingOutletCodes(ctx context.Context, prefix string) (map[string]struct{}, error)
	PersistBatch(ctx context.Context, sales []types.Transaction, outlets []types.Outlet) (store.PersistResult, error)
}

// Pipeline ingests distributor extracts.
type Pipeline struct {
	store  Store
	cfg    *config.MainConfig
	logger logrus.FieldLogger

	readTable   func(path string) (*types.Table, error)
	loadDetails func(path string) (map[string]outlet.Detail, error)
}

// New creates a pipeline.
func New(st Store, cfg *config.MainConfig, logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		store:       st,
		cfg:         cfg,
		logger:      logger.WithField("module", "ingest"),
		readTable:   reader.ReadPath,
		loadDetails: outlet.LoadDetails,
	}
}

// Source names one ingestion request.
type Source struct {
	Distributor string

	// File overrides the configured path when set.
	File string

	// DryRun runs every step except persistence.
	DryRun bool
}

// =============================================================================
// RUN STATE
// =============================================================================

// RunState is the mutable state of one run: the dedup gate, the outlet
// resolver and the rows accepted so far.
type RunState struct {
	Gate     *dedup.Gate
	Resolver *outlet.Resolver
	Accepted []types.Transaction
}

// Apply runs every normalized transaction through the resolver and the gate
// in source order.
func (s *RunState) Apply(batch []normalizer.Normalized) {
	for _, n := range batch {
		t := n.Transaction
		s.Resolver.Resolve(t)
		if s.Gate.Admit(t.Key()) {
			s.Accepted = append(s.Accepted, t)
		}
	}
}

// =============================================================================
// MAIN PIPELINE
// =============================================================================

// Run ingests one source and never panics on bad input.
func (p *Pipeline) Run(ctx context.Context, src Source) Result {
	start := time.Now()
	result := Result{
		RunID:       uuid.New().String(),
		Distributor: strings.ToUpper(src.Distributor),
	}
	log := p.logger.WithFields(logrus.Fields{"run_id": result.RunID, "distributor": result.Distributor})

	err := p.run(ctx, src, &result, log)
	result.Stats.ProcessingTime = time.Since(start)
	if err != nil {
		result.Error = err
		config.LogError(log, "ingest", "Run", "ingestion aborted", result.FilePath, err)
		return result
	}

	result.Success = true
	log.WithFields(logrus.Fields{
		"rows":            result.Stats.RowsRead,
		"skipped":         result.Stats.RowsSkipped,
		"dup_existing":    result.Stats.DuplicatesExisting,
		"dup_in_batch":    result.Stats.DuplicatesInBatch,
		"sales_persisted": result.Stats.SalesPersisted,
		"outlets_created": result.Stats.OutletsCreated,
		"elapsed":         result.Stats.ProcessingTime.String(),
	}).Info("ingestion complete")
	return result
}

func (p *Pipeline) run(ctx context.Context, src Source, result *Result, log logrus.FieldLogger) error {
	// =========================================================================
	// STEP 1: RESOLVE SOURCE
	// =========================================================================

	norm, err := normalizer.ForDistributor(src.Distributor, normalizer.Tables{
		CityAbbreviations: p.cfg.CityAbbreviations,
		OutletTypes:       p.cfg.OutletTypes,
	})
	if err != nil {
		return err
	}

	path := src.File
	if path == "" {
		if path, err = p.cfg.SourcePath(norm.Distributor()); err != nil {
			return err
		}
	}
	result.FilePath = path

	// =========================================================================
	// STEP 2: DECODE
	// =========================================================================

	table, err := p.readTable(path)
	if err != nil {
		return err
	}
	result.Stats.RowsRead = len(table.Rows)
	log.WithField("rows", len(table.Rows)).Debug("source decoded")

	// =========================================================================
	// STEP 3: NORMALIZE
	// =========================================================================

	batch, err := normalizer.NormalizeAll(norm, table)
	if err != nil {
		return err
	}
	result.Stats.RowsNormalized = len(batch.Accepted)
	result.Stats.RowsSkipped = len(batch.Skipped)
	for _, sk := range batch.Skipped {
		entry := log.WithFields(logrus.Fields{"row": sk.Row + 1, "reason": sk.Reason})
		if errors.Is(sk.Err, types.ErrUnrecognizedArea) {
			result.Stats.UnrecognizedArea++
			entry.Warn(sk.Err.Error())
			continue
		}
		entry.Info("row skipped")
	}
	for _, w := range batch.Warnings {
		log.Debug(w.Error())
	}

	// =========================================================================
	// STEP 4: LOAD RUN STATE
	// =========================================================================

	state, err := p.loadState(ctx, norm.Distributor(), batch, log)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 5: RESOLVE OUTLETS AND DEDUPLICATE
	// =========================================================================

	state.Apply(batch.Accepted)
	_, result.Stats.DuplicatesExisting, result.Stats.DuplicatesInBatch = state.Gate.Stats()

	missing := state.Resolver.MissingDetail()
	result.Stats.OutletsMissingDetail = len(missing)
	if len(missing) > 0 {
		log.WithField("codes", missing).Warn("outlets without detail entry, sales kept without new outlet rows")
	}

	// =========================================================================
	// STEP 6: PERSIST
	// =========================================================================

	staged := state.Resolver.Staged()
	if src.DryRun {
		log.WithFields(logrus.Fields{"sales": len(state.Accepted), "outlets": len(staged)}).Info("dry run, nothing persisted")
		return nil
	}
	if len(state.Accepted) == 0 && len(staged) == 0 {
		log.Info("nothing new to persist")
		return nil
	}

	persisted, err := p.store.PersistBatch(ctx, state.Accepted, staged)
	if err != nil {
		return fmt.Errorf("persist %s: %w", norm.Distributor(), err)
	}
	result.Stats.SalesPersisted = persisted.Sales
	result.Stats.OutletsCreated = persisted.Outlets
	if persisted.Outlets > 0 {
		log.Infof("Inserted %d new outlets.", persisted.Outlets)
	}

	return nil
}

// loadState runs the pre-check queries and loads the outlet companion.
func (p *Pipeline) loadState(ctx context.Context, dist string, batch *normalizer.Batch, log logrus.FieldLogger) (*RunState, error) {
	existingKeys, err := p.store.ExistingSaleKeys(ctx, normalizer.InvoiceNumbers(batch))
	if err != nil {
		return nil, err
	}

	existingOutlets, err := p.store.ExistingOutletCodes(ctx, dist)
	if err != nil {
		return nil, err
	}

	var details map[string]outlet.Detail
	if detailPath, err := p.cfg.SourcePath(strings.ToLower(dist) + "_outlet"); err == nil {
		details, err = p.loadDetails(detailPath)
		if err != nil {
			return nil, fmt.Errorf("outlet details: %w", err)
		}
		log.WithField("outlets", len(details)).Debug("outlet details loaded")
	}

	return &RunState{
		Gate:     dedup.NewGate(existingKeys),
		Resolver: outlet.NewResolver(details, existingOutlets, p.cfg.OutletTypes),
	}, nil
}
