package store

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"

	"github.com/ginjaninja78/salesync/internal/types"
)

// UnmappedOutlets lists registry outlets with no outlet identity yet, with
// the name of the territory they are parked under if any.
func (s *Store) UnmappedOutlets(ctx context.Context) ([]types.UnmappedOutlet, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select("p.kode_outlet", "p.distributor", "p.outlet", "p.alamat", "p.kota", "p.mrid", sb.As("m.MR", "mr_name"))
	sb.From(sb.As(TableOutlets, "p"))
	sb.JoinWithOption(sqlbuilder.LeftJoin, sb.As(TableHierarchy, "m"), "p.mrid = m.MRID")
	sb.Where(sb.Or(sb.IsNull("p.outid"), sb.Equal("p.outid", "")))
	sb.OrderBy("p.distributor", "p.kode_outlet")

	query, args := sb.Build()
	var out []types.UnmappedOutlet
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		s.logger.WithError(err).Error("Failed to list unmapped outlets")
		return nil, errors.Wrap(err, "failed to list unmapped outlets")
	}
	return out, nil
}

// ExistingValues returns which of values appear in table.column.
func (s *Store) ExistingValues(ctx context.Context, table, column string, values []string) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	if len(values) == 0 {
		return found, nil
	}

	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(sb.As("CAST("+column+" AS CHAR)", "v"))
	sb.Distinct()
	sb.From(table)
	sb.Where(sb.In(column, toArgs(values)...))

	query, args := sb.Build()
	var got []string
	if err := s.db.SelectContext(ctx, &got, query, args...); err != nil {
		s.logger.WithError(err).WithField("column", column).Error("Failed to check existing values")
		return nil, errors.Wrapf(err, "failed to check %s.%s", table, column)
	}
	for _, v := range got {
		found[v] = struct{}{}
	}
	return found, nil
}

// UpdateOutletLinks applies reconciliation links in one transaction and
// returns how many outlet rows changed. Empty link fields are written as NULL.
func (s *Store) UpdateOutletLinks(ctx context.Context, links []types.OutletLink) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var updated int64
	for _, l := range links {
		ub := sqlbuilder.MySQL.NewUpdateBuilder()
		ub.Update(TableOutlets)
		ub.Set(
			ub.Assign("comid", nullable(l.ComID)),
			ub.Assign("outid", nullable(l.OutID)),
			ub.Assign("mrid", nullable(l.MRID)),
		)
		ub.Where(ub.Equal("kode_outlet", l.Code))

		query, args := ub.Build()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			s.logger.WithError(err).WithField("kode_outlet", l.Code).Error("Failed to update outlet links")
			return 0, errors.Wrapf(err, "failed to update outlet %s", l.Code)
		}
		n, _ := res.RowsAffected()
		updated += n
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit outlet links")
	}
	return updated, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
