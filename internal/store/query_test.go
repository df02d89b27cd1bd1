package store

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/salesync/internal/types"
)

func sale(invoice, item string) types.Transaction {
	return types.Transaction{
		Dist:        "APL-BDG",
		DisID:       "1101",
		InvoiceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		InvoiceNo:   invoice,
		ItemCode:    item,
		Quantity:    decimal.NewFromInt(2),
		OutletCode:  "123",
		Value:       decimal.NewFromInt(100),
		NetValue:    decimal.NewFromInt(75),
	}
}

func TestBuildSalesReplaces(t *testing.T) {
	stmts := buildSalesReplaces([]types.Transaction{sale("INV1", "A"), sale("INV1", "B")})
	require.Len(t, stmts, 1)
	query, args := stmts[0].query, stmts[0].args

	assert.True(t, strings.HasPrefix(query, "REPLACE INTO pj_sales"), query)
	assert.Contains(t, query, "(dist, disid, tanggal_faktur, nomor_faktur, item_code")
	assert.Equal(t, 2, strings.Count(query, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"))
	assert.Len(t, args, 2*len(salesCols))
	assert.Equal(t, "B", args[len(salesCols)+4])
}

func TestBuildOutletInserts(t *testing.T) {
	stmts := buildOutletInserts([]types.Outlet{
		{Code: "123", Distributor: "APL-BDG", DisID: "1101", Name: "Apotek Sehat", Type: "APT"},
	})
	require.Len(t, stmts, 1)
	query, args := stmts[0].query, stmts[0].args

	assert.True(t, strings.HasPrefix(query, "INSERT INTO pj_outlets"), query)
	assert.NotContains(t, query, "REPLACE")
	assert.Len(t, args, len(outletCols))
	assert.Equal(t, "123", args[0])
	assert.Equal(t, "APT", args[len(outletCols)-1])
}

func TestBuildOutletInserts_Empty(t *testing.T) {
	assert.Empty(t, buildOutletInserts(nil))
	assert.Empty(t, buildSalesReplaces(nil))
	assert.Empty(t, buildLedgerInserts(nil))
	assert.Empty(t, buildSaleKeyQueries(nil))
}

// assertSplit checks that stmts carry every row exactly once and that no
// statement exceeds the placeholder limit.
func assertSplit(t *testing.T, stmts []statement, rows, width int) {
	t.Helper()
	require.Greater(t, len(stmts), 1)

	total := 0
	for _, st := range stmts {
		assert.LessOrEqual(t, len(st.args), maxPlaceholders)
		assert.Equal(t, len(st.args), strings.Count(st.query, "?"))
		total += len(st.args)
	}
	assert.Equal(t, rows*width, total)
}

func TestBuildSalesReplaces_LargeBatchSplits(t *testing.T) {
	const rows = 6000
	sales := make([]types.Transaction, rows)
	for i := range sales {
		sales[i] = sale(fmt.Sprintf("INV%05d", i), "A")
	}

	stmts := buildSalesReplaces(sales)

	assertSplit(t, stmts, rows, len(salesCols))
	assert.Len(t, stmts, 2)
	assert.Equal(t, "INV05999", stmts[1].args[len(stmts[1].args)-len(salesCols)+3])
}

func TestBuildLedgerInserts_LargeBatchSplits(t *testing.T) {
	const rows = 3000
	ledger := make([]types.LedgerRow, rows)
	for i := range ledger {
		ledger[i] = types.LedgerRow{ComID: "C1", SLHID: int64(i + 1), ProID: "42", Bonus: 1}
	}

	stmts := buildLedgerInserts(ledger)

	assertSplit(t, stmts, rows, len(ledgerCols))
	assert.True(t, strings.HasPrefix(stmts[0].query, "INSERT INTO sales_harian"))
}

func TestBuildSaleKeyQueries_LongInvoiceListSplits(t *testing.T) {
	const n = maxPlaceholders + 10
	invoices := make([]string, n)
	for i := range invoices {
		invoices[i] = fmt.Sprintf("INV%06d", i)
	}

	stmts := buildSaleKeyQueries(invoices)

	assertSplit(t, stmts, n, 1)
	assert.Len(t, stmts[1].args, 10)
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2}}, chunk([]int{1, 2}, 2))
	assert.Empty(t, chunk([]int{}, 3))
	assert.Equal(t, 5461, rowsPerStatement(len(salesCols)))
}

func TestBuildReportQuery(t *testing.T) {
	t.Run("open period", func(t *testing.T) {
		query, args := buildReportQuery(Period{})

		assert.Contains(t, query, "FROM pj_sales AS s")
		assert.Contains(t, query, "LEFT JOIN pj_outlets AS o ON o.kode_outlet = s.kode_outlet AND o.distributor = s.dist")
		assert.Contains(t, query, "COALESCE(sp.mrid, o.mrid) AS tpid")
		assert.Contains(t, query, "ms.MRID AS hierarchy_id")
		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, args)
	})

	t.Run("bounded period", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

		query, args := buildReportQuery(Period{From: &from, To: &to})

		assert.Contains(t, query, "s.tanggal_faktur >= ?")
		assert.Contains(t, query, "s.tanggal_faktur <= ?")
		assert.Equal(t, []interface{}{from, to}, args)
	})
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "C1", nullable("C1"))
}
