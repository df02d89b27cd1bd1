package outlet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/salesync/internal/csvparser"
	"github.com/ginjaninja78/salesync/internal/store"
	"github.com/ginjaninja78/salesync/internal/types"
	"github.com/ginjaninja78/salesync/internal/validation"
)

// Columns of a reconciliation import file.
const (
	LinkColumnCode  = "Outlet Code"
	LinkColumnComID = "comid"
	LinkColumnOutID = "Outid"
	LinkColumnMRID  = "MRID"
)

// maxListedInvalid caps how many invalid ids one error message names.
const maxListedInvalid = 10

// LinkStore is the slice of the store the reconciliation import needs.
type LinkStore interface {
	ExistingValues(ctx context.Context, table, column string, values []string) (map[string]struct{}, error)
	UpdateOutletLinks(ctx context.Context, links []types.OutletLink) (int64, error)
}

// LinksFromTable reads reconciliation links from a decoded import file. Rows
// without an outlet code, or with no link field at all, are ignored.
func LinksFromTable(table *types.Table) ([]types.OutletLink, error) {
	if err := validation.RequireColumns(table.Headers, []string{LinkColumnCode}); err != nil {
		return nil, fmt.Errorf("outlet links: %w", err)
	}

	var links []types.OutletLink
	for _, row := range table.Rows {
		l := types.OutletLink{
			Code:  row[LinkColumnCode],
			ComID: row[LinkColumnComID],
			OutID: row[LinkColumnOutID],
			MRID:  row[LinkColumnMRID],
		}
		if l.Code == "" || (l.ComID == "" && l.OutID == "" && l.MRID == "") {
			continue
		}
		links = append(links, l)
	}
	return links, nil
}

// ValidateLinks checks every referenced comid, outid and mrid against the
// outlet registry. All columns are checked before returning so the error
// names every problem at once.
func ValidateLinks(ctx context.Context, st LinkStore, links []types.OutletLink) error {
	checks := []struct {
		column string
		pick   func(types.OutletLink) string
	}{
		{"comid", func(l types.OutletLink) string { return l.ComID }},
		{"outid", func(l types.OutletLink) string { return l.OutID }},
		{"mrid", func(l types.OutletLink) string { return l.MRID }},
	}

	var problems []string
	for _, c := range checks {
		values := distinct(links, c.pick)
		existing, err := st.ExistingValues(ctx, store.TableOutlets, c.column, values)
		if err != nil {
			return err
		}
		var invalid []string
		for _, v := range values {
			if _, ok := existing[v]; !ok {
				invalid = append(invalid, v)
			}
		}
		if len(invalid) > 0 {
			problems = append(problems, invalidMessage(c.column, invalid))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("outlet links rejected:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

// ImportLinks reads an import file, validates it and applies the links in
// one transaction. Nothing is written when validation fails.
func ImportLinks(ctx context.Context, st LinkStore, path string) (int64, error) {
	table, err := csvparser.Parse(path)
	if err != nil {
		return 0, err
	}
	links, err := LinksFromTable(table)
	if err != nil {
		return 0, err
	}
	if err := ValidateLinks(ctx, st, links); err != nil {
		return 0, err
	}
	return st.UpdateOutletLinks(ctx, links)
}

func distinct(links []types.OutletLink, pick func(types.OutletLink) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range links {
		v := pick(l)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func invalidMessage(column string, invalid []string) string {
	if len(invalid) > maxListedInvalid {
		return fmt.Sprintf("Invalid %s: %s...", column, strings.Join(invalid[:maxListedInvalid], ", "))
	}
	return fmt.Sprintf("Invalid %s: %s", column, strings.Join(invalid, ", "))
}
