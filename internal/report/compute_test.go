package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/salesync/internal/types"
)

func ptr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDeriveRow(t *testing.T) {
	line := DeriveRow(types.ReportRow{
		Quantity: dec("4"),
		Value:    dec("200"),
		NetValue: dec("150"),
	})

	assert.True(t, dec("50").Equal(line.DiscountAmount))
	assert.True(t, dec("0.25").Equal(line.DiscountPercent))
	assert.True(t, dec("37.5").Equal(line.UnitNetPrice))
}

func TestDeriveRow_ZeroDivisors(t *testing.T) {
	line := DeriveRow(types.ReportRow{
		Quantity: decimal.Zero,
		Value:    decimal.Zero,
		NetValue: dec("10"),
	})

	assert.True(t, dec("-10").Equal(line.DiscountAmount))
	assert.True(t, line.DiscountPercent.IsZero())
	assert.True(t, line.UnitNetPrice.IsZero())
}

func TestUnmatched_ScenarioD(t *testing.T) {
	matched := types.ReportRow{OutletCode: "1", OutID: ptr("O1"), HierarchyID: ptr("MR1")}
	unresolved := types.ReportRow{OutletCode: "2", OutID: ptr("O2")}
	noIdentity := types.ReportRow{OutletCode: "3"}
	otherCodeSameIdentity := types.ReportRow{OutletCode: "4", OutID: ptr("O2")}

	rows := []types.ReportRow{
		matched,
		unresolved, unresolved, unresolved,
		noIdentity, noIdentity,
		otherCodeSameIdentity,
	}
	lines := Derive(rows)

	got := Unmatched(lines)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].OutletCode)
	assert.Equal(t, "3", got[1].OutletCode)

	assert.Equal(t, 6, CountUnmatched(lines))
}

func TestUnmatched_EmptyIdentityFallsBackToCode(t *testing.T) {
	lines := Derive([]types.ReportRow{
		{OutletCode: "A", OutID: ptr("")},
		{OutletCode: "B", OutID: ptr("")},
		{OutletCode: "A"},
	})

	got := Unmatched(lines)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].OutletCode)
	assert.Equal(t, "B", got[1].OutletCode)
}
