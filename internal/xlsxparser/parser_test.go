package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/salesync/internal/types"
)

func TestFromRows(t *testing.T) {
	rows := [][]string{
		{" Branch Code ", "Inv No", "Qty"},
		{"01", "F-1001", "12"},
		{"", "", ""},
		{"02", "F-1002"},
	}

	table, err := FromRows(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"Branch Code", "Inv No", "Qty"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "01", table.Rows[0]["Branch Code"])
	assert.Equal(t, "12", table.Rows[0]["Qty"])
	assert.Equal(t, "F-1002", table.Rows[1]["Inv No"])
	assert.Equal(t, "", table.Rows[1]["Qty"])
}

func TestFromRows_Errors(t *testing.T) {
	t.Run("NoHeader", func(t *testing.T) {
		_, err := FromRows(nil)
		assert.ErrorIs(t, err, types.ErrMalformedSource)
	})

	t.Run("RowWiderThanHeader", func(t *testing.T) {
		_, err := FromRows([][]string{{"a"}, {"1", "2"}})
		assert.ErrorIs(t, err, types.ErrMalformedSource)
	})
}

func TestParse_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ppg.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Branch Code", "Inv No", "Qty"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"01", "F-1001", 1500}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, path, table.SourceFile)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "F-1001", table.Rows[0]["Inv No"])
	assert.Equal(t, "1500", table.Rows[0]["Qty"])
}

func TestParse_MissingFileIsUnreadable(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, types.ErrUnreadableSource)
}
