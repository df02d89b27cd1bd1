package report

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/salesync/internal/types"
)

// Derive computes the discount and unit price fields for every row.
func Derive(rows []types.ReportRow) []types.ReportLine {
	lines := make([]types.ReportLine, len(rows))
	for i, r := range rows {
		lines[i] = DeriveRow(r)
	}
	return lines
}

// DeriveRow computes gross-net, 1-net/gross and net/quantity for one row.
// Divisions by zero yield zero.
func DeriveRow(r types.ReportRow) types.ReportLine {
	line := types.ReportLine{
		ReportRow:      r,
		DiscountAmount: r.Value.Sub(r.NetValue),
	}
	if !r.Value.IsZero() {
		line.DiscountPercent = decimal.NewFromInt(1).Sub(r.NetValue.Div(r.Value))
	}
	if !r.Quantity.IsZero() {
		line.UnitNetPrice = r.NetValue.Div(r.Quantity)
	}
	return line
}

// Unmatched returns the lines whose hierarchy did not resolve, one per outlet
// identity (outid), falling back to the outlet code when the outlet has no
// identity. First occurrence wins; order follows the input.
func Unmatched(lines []types.ReportLine) []types.ReportLine {
	seen := make(map[string]struct{})
	var out []types.ReportLine
	for _, l := range lines {
		if l.Matched() {
			continue
		}
		key := unmatchedKey(l)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}

// CountUnmatched counts lines without a resolved hierarchy, before dedup.
func CountUnmatched(lines []types.ReportLine) int {
	n := 0
	for _, l := range lines {
		if !l.Matched() {
			n++
		}
	}
	return n
}

func unmatchedKey(l types.ReportLine) string {
	if l.OutID != nil && *l.OutID != "" {
		return "outid:" + *l.OutID
	}
	return "code:" + l.OutletCode
}
