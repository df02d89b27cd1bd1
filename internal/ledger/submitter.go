// =============================================================================
// Sales Sync - Ledger Submission
// =============================================================================
//
// After a report is exported, its lines are appended to the long-term sales
// ledger (sales_harian). Submission is all-or-nothing:
//   - if any line has no resolved product id, nothing is written and
//     types.ErrMissingProductMapping is returned
//   - otherwise every line gets the next record id of its legal entity and
//     all lines go out in one writer call, committed as one transaction
//
// =============================================================================

package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/salesync/internal/normalizer"
	"github.com/ginjaninja78/salesync/internal/types"
)

// Writer appends rows to the ledger.
type Writer interface {
	InsertLedger(ctx context.Context, rows []types.LedgerRow) error
}

// Submitter writes report lines to the ledger.
type Submitter struct {
	writer Writer
	seq    Sequence
	logger logrus.FieldLogger
}

// NewSubmitter creates a submitter.
func NewSubmitter(writer Writer, seq Sequence, logger logrus.FieldLogger) *Submitter {
	return &Submitter{writer: writer, seq: seq, logger: logger.WithField("module", "ledger")}
}

// Submit writes lines to the ledger and returns how many rows were written.
func (s *Submitter) Submit(ctx context.Context, lines []types.ReportLine) (int, error) {
	if missing := countMissingProduct(lines); missing > 0 {
		s.logger.Warnf("%d rows have missing Product IDs, ledger submission skipped. Please check product mappings.", missing)
		return 0, fmt.Errorf("%w: %d rows", types.ErrMissingProductMapping, missing)
	}
	if len(lines) == 0 {
		return 0, nil
	}

	next, err := s.reserve(ctx, lines)
	if err != nil {
		return 0, fmt.Errorf("reserve ledger ids: %w", err)
	}

	rows := make([]types.LedgerRow, 0, len(lines))
	for _, l := range lines {
		comid := deref(l.ComID)
		rows = append(rows, toLedgerRow(l, comid, next[comid]))
		next[comid]++
	}

	if err := s.writer.InsertLedger(ctx, rows); err != nil {
		return 0, err
	}

	s.logger.WithField("rows", len(rows)).Info("ledger submitted")
	return len(rows), nil
}

// reserve allocates one block per legal entity and returns the first id of
// each block. Entities are reserved in sorted order.
func (s *Submitter) reserve(ctx context.Context, lines []types.ReportLine) (map[string]int64, error) {
	counts := make(map[string]int)
	for _, l := range lines {
		counts[deref(l.ComID)]++
	}

	comids := make([]string, 0, len(counts))
	for c := range counts {
		comids = append(comids, c)
	}
	sort.Strings(comids)

	next := make(map[string]int64, len(counts))
	for _, c := range comids {
		first, err := s.seq.Reserve(ctx, c, counts[c])
		if err != nil {
			return nil, err
		}
		next[c] = first
	}
	return next, nil
}

func toLedgerRow(l types.ReportLine, comid string, id int64) types.LedgerRow {
	return types.LedgerRow{
		ComID:           comid,
		SLHID:           id,
		Year:            l.Year,
		Month:           l.Month,
		InvoiceDate:     l.InvoiceDate,
		InvoiceNo:       l.InvoiceNo,
		Quantity:        l.Quantity,
		ProID:           deref(l.ProID),
		DisID:           normalizer.FirstDigits(deref(l.DisID)),
		OutID:           l.OutID,
		Distributor:     l.Distributor,
		Outlet:          l.Outlet,
		Product:         l.Product,
		Bonus:           1,
		HNA:             l.HNR,
		DiscountAmount:  l.DiscountAmount,
		OutletCode:      l.OutletCode,
		NetValue:        l.NetValue,
		DiscBerno:       l.DiscountPercent,
		DiscDistributor: nullToZero(l.DiscDistributor),
		DiscPercent:     l.DiscountPercent,
		OriginalValue:   l.Value,
	}
}

func countMissingProduct(lines []types.ReportLine) int {
	n := 0
	for _, l := range lines {
		if deref(l.ProID) == "" {
			n++
		}
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullToZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
