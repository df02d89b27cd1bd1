package store

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"

	"github.com/ginjaninja78/salesync/internal/types"
)

var ledgerCols = []string{
	"comid", "slhid", "tahun", "bulan", "tanggal_faktur", "nomor_faktur", "quantity",
	"thn_retur", "bln_retur", "qty_retur", "realokasi",
	"proid", "disid", "outid", "distributor", "outlet", "product", "bonus", "hna",
	"diskon", "kode_outlet", "value_net", "disc_berno", "disc_distributor", "disc_p", "value_asli",
}

// LedgerMaxIDs returns the highest ledger record id per legal entity.
func (s *Store) LedgerMaxIDs(ctx context.Context) (map[string]int64, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select("comid", sb.As("MAX(slhid)", "max_id"))
	sb.From(TableLedger)
	sb.GroupBy("comid")

	query, args := sb.Build()
	var rows []struct {
		ComID string `db:"comid"`
		MaxID int64  `db:"max_id"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.WithError(err).Error("Failed to read ledger sequence")
		return nil, errors.Wrap(err, "failed to read ledger sequence")
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.ComID] = r.MaxID
	}
	return out, nil
}

// InsertLedger appends rows to the ledger with multi-row INSERTs sized
// under MySQL's placeholder limit, all in one transaction.
func (s *Store) InsertLedger(ctx context.Context, rows []types.LedgerRow) (err error) {
	if len(rows) == 0 {
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.WithError(rbErr).Error("Failed to roll back ledger rows")
			}
		}
	}()

	for _, st := range buildLedgerInserts(rows) {
		if _, err = tx.ExecContext(ctx, st.query, st.args...); err != nil {
			s.logger.WithError(err).WithField("rows", len(rows)).Error("Failed to insert ledger rows")
			return errors.Wrap(err, "failed to insert ledger rows")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit ledger rows")
	}
	return nil
}

func buildLedgerInserts(rows []types.LedgerRow) []statement {
	var out []statement
	for _, part := range chunk(rows, rowsPerStatement(len(ledgerCols))) {
		ib := sqlbuilder.MySQL.NewInsertBuilder()
		ib.InsertInto(TableLedger)
		ib.Cols(ledgerCols...)
		for _, r := range part {
			ib.Values(r.ComID, r.SLHID, r.Year, r.Month, r.InvoiceDate, r.InvoiceNo, r.Quantity,
				nil, nil, nil, nil,
				r.ProID, r.DisID, r.OutID, r.Distributor, r.Outlet, r.Product, r.Bonus, r.HNA,
				r.DiscountAmount, r.OutletCode, r.NetValue, r.DiscBerno, r.DiscDistributor, r.DiscPercent, r.OriginalValue)
		}

		query, args := ib.Build()
		out = append(out, statement{query, args})
	}
	return out
}
