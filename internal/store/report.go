package store

import (
	"context"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"

	"github.com/ginjaninja78/salesync/internal/types"
)

// Period bounds a report by invoice date. Nil ends are open.
type Period struct {
	From *time.Time
	To   *time.Time
}

// ReportRows reads every persisted transaction in the period joined with the
// outlet, product, panel override and hierarchy tables. The territory is the
// panel override when present, otherwise the outlet's own.
func (s *Store) ReportRows(ctx context.Context, period Period) ([]types.ReportRow, error) {
	query, args := buildReportQuery(period)

	var rows []types.ReportRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.WithError(err).Error("Failed to read report rows")
		return nil, errors.Wrap(err, "failed to read report rows")
	}
	return rows, nil
}

func buildReportQuery(period Period) (string, []interface{}) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(
		sb.As("EXTRACT(YEAR FROM s.tanggal_faktur)", "tahun"),
		sb.As("EXTRACT(MONTH FROM s.tanggal_faktur)", "bulan"),
		"o.comid",
		"o.disid",
		sb.As("s.dist", "distributor"),
		"o.outid",
		"o.outlet",
		"o.alamat",
		sb.As("o.mrid", "outlet_mrid"),
		"s.tanggal_faktur",
		"s.nomor_faktur",
		"s.po_outlet",
		"s.kode_outlet",
		"s.batch_no",
		sb.As("COALESCE(s.quantity, 0)", "quantity"),
		sb.As("COALESCE(s.value, 0)", "value"),
		sb.As("COALESCE(s.net_value, 0)", "value_net"),
		"s.disc_distributor",
		sb.As("xp.id", "proid"),
		sb.As("mg.produk", "product"),
		"mg.urut_prod",
		sb.As("mg.hna", "hnr"),
		"mg.nama_grup",
		sb.As("COALESCE(sp.mrid, o.mrid)", "tpid"),
		sb.As("ms.MRID", "hierarchy_id"),
		sb.As("ms.MR", "tp"),
		sb.As("ms.SPVID", "spvid"),
		sb.As("ms.SPV", "spv"),
		sb.As("ms.DMID", "dmid"),
		sb.As("ms.DM", "dm"),
		sb.As("ms.AMID", "amid"),
		sb.As("ms.AM", "am"),
		sb.As("ms.SMID", "smid"),
		sb.As("ms.SM", "sm"),
		sb.As("ms.GSMID", "gsmid"),
		sb.As("ms.GSM", "gsm"),
	)
	sb.From(sb.As(TableSales, "s"))
	sb.JoinWithOption(sqlbuilder.LeftJoin, sb.As(TableOutlets, "o"),
		"o.kode_outlet = s.kode_outlet",
		"o.distributor = s.dist",
	)
	sb.JoinWithOption(sqlbuilder.LeftJoin, sb.As(TableProducts, "xp"),
		"xp.disid = o.disid",
		"xp.kode = s.item_code",
		"xp.comid = o.comid",
	)
	sb.JoinWithOption(sqlbuilder.LeftJoin, sb.As(TablePanel, "sp"),
		"sp.nomor_faktur = s.nomor_faktur",
		"sp.proid = xp.id",
	)
	sb.JoinWithOption(sqlbuilder.LeftJoin, sb.As(TableHierarchy, "ms"),
		"ms.MRID = COALESCE(sp.mrid, o.mrid)",
	)
	sb.JoinWithOption(sqlbuilder.LeftJoin, sb.As(TableGroups, "mg"),
		"mg.proid = xp.id",
	)

	if period.From != nil {
		sb.Where(sb.GreaterEqualThan("s.tanggal_faktur", *period.From))
	}
	if period.To != nil {
		sb.Where(sb.LessEqualThan("s.tanggal_faktur", *period.To))
	}
	sb.OrderBy("s.tanggal_faktur", "s.nomor_faktur", "s.item_code")

	return sb.Build()
}
