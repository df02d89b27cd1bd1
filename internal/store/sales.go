package store

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/salesync/internal/types"
)

var salesCols = []string{
	"dist", "disid", "tanggal_faktur", "nomor_faktur", "item_code", "quantity",
	"kode_outlet", "value", "net_value", "po_outlet", "batch_no", "disc_distributor",
}

var outletCols = []string{
	"kode_outlet", "distributor", "disid", "outlet", "alamat", "kota",
	"kode_pos", "distrik", "tipe_outlet",
}

// ExistingSaleKeys loads the identity keys already persisted for the given
// invoice numbers. Long invoice lists are split across several IN queries.
func (s *Store) ExistingSaleKeys(ctx context.Context, invoiceNos []string) (map[types.SaleKey]struct{}, error) {
	existing := make(map[types.SaleKey]struct{})

	for _, st := range buildSaleKeyQueries(invoiceNos) {
		var keys []types.SaleKey
		if err := s.db.SelectContext(ctx, &keys, st.query, st.args...); err != nil {
			s.logger.WithError(err).WithField("invoices", len(invoiceNos)).Error("Failed to load existing sale keys")
			return nil, errors.Wrap(err, "failed to load existing sale keys")
		}
		for _, k := range keys {
			existing[k] = struct{}{}
		}
	}
	return existing, nil
}

// ExistingOutletCodes loads the outlet codes registered under distributors
// whose identity starts with prefix (e.g. "APL" matches "APL-BDG").
func (s *Store) ExistingOutletCodes(ctx context.Context, prefix string) (map[string]struct{}, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select("kode_outlet")
	sb.Distinct()
	sb.From(TableOutlets)
	sb.Where(sb.Like("distributor", prefix+"%"))

	query, args := sb.Build()
	var codes []string
	if err := s.db.SelectContext(ctx, &codes, query, args...); err != nil {
		s.logger.WithError(err).WithField("prefix", prefix).Error("Failed to load existing outlet codes")
		return nil, errors.Wrap(err, "failed to load existing outlet codes")
	}

	existing := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		existing[c] = struct{}{}
	}
	return existing, nil
}

// PersistResult reports what one PersistBatch call wrote.
type PersistResult struct {
	Sales   int
	Outlets int
}

// PersistBatch writes the staged outlets with plain multi-row INSERTs and
// the accepted sales with multi-row REPLACEs, inside one database
// transaction. Each statement stays under MySQL's placeholder limit. An
// empty row set skips its statements. Caller cancellation is ignored once
// the transaction begins, so a batch either fully commits or rolls back.
func (s *Store) PersistBatch(ctx context.Context, sales []types.Transaction, outlets []types.Outlet) (PersistResult, error) {
	var result PersistResult
	if len(sales) == 0 && len(outlets) == 0 {
		return result, nil
	}

	ctx = context.WithoutCancel(ctx)
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.WithError(rbErr).Error("Failed to roll back batch")
			}
		}
	}()

	for _, st := range buildOutletInserts(outlets) {
		if _, err = tx.ExecContext(ctx, st.query, st.args...); err != nil {
			s.logger.WithError(err).WithField("outlets", len(outlets)).Error("Failed to insert outlets")
			return PersistResult{}, errors.Wrap(err, "failed to insert outlets")
		}
	}
	result.Outlets = len(outlets)

	for _, st := range buildSalesReplaces(sales) {
		if _, err = tx.ExecContext(ctx, st.query, st.args...); err != nil {
			s.logger.WithError(err).WithField("sales", len(sales)).Error("Failed to replace sales")
			return PersistResult{}, errors.Wrap(err, "failed to replace sales")
		}
	}
	result.Sales = len(sales)

	if err = tx.Commit(); err != nil {
		return PersistResult{}, errors.Wrap(err, "failed to commit batch")
	}

	s.logger.WithFields(logrus.Fields{"sales": result.Sales, "outlets": result.Outlets}).Debug("Persisted batch")
	return result, nil
}

func buildSaleKeyQueries(invoiceNos []string) []statement {
	var out []statement
	for _, part := range chunk(invoiceNos, maxPlaceholders) {
		sb := sqlbuilder.MySQL.NewSelectBuilder()
		sb.Select("dist", "nomor_faktur", "item_code")
		sb.From(TableSales)
		sb.Where(sb.In("nomor_faktur", toArgs(part)...))

		query, args := sb.Build()
		out = append(out, statement{query, args})
	}
	return out
}

func buildSalesReplaces(sales []types.Transaction) []statement {
	var out []statement
	for _, part := range chunk(sales, rowsPerStatement(len(salesCols))) {
		ib := sqlbuilder.MySQL.NewInsertBuilder()
		ib.ReplaceInto(TableSales)
		ib.Cols(salesCols...)
		for _, t := range part {
			ib.Values(t.Dist, t.DisID, t.InvoiceDate, t.InvoiceNo, t.ItemCode, t.Quantity,
				t.OutletCode, t.Value, t.NetValue, t.PONumber, t.BatchNumber, t.DiscDistributor)
		}

		query, args := ib.Build()
		out = append(out, statement{query, args})
	}
	return out
}

func buildOutletInserts(outlets []types.Outlet) []statement {
	var out []statement
	for _, part := range chunk(outlets, rowsPerStatement(len(outletCols))) {
		ib := sqlbuilder.MySQL.NewInsertBuilder()
		ib.InsertInto(TableOutlets)
		ib.Cols(outletCols...)
		for _, o := range part {
			ib.Values(o.Code, o.Distributor, o.DisID, o.Name, o.Address, o.City,
				o.PostalCode, o.District, o.Type)
		}

		query, args := ib.Build()
		out = append(out, statement{query, args})
	}
	return out
}
