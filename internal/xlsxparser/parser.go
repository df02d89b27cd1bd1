// =============================================================================
// Sales Sync - XLSX Parser Module
// =============================================================================
//
// This module decodes spreadsheet extracts (the PPG sales file) into an
// ordered types.Table. Only the first sheet is read; its first row is the
// header.
//
// SHEET LAYOUT (PPG example):
//
//   | Branch Code | Inv Date   | Inv No | Part No | Qty | Customer Id | Sales Nett (DPP) |
//   |-------------|------------|--------|---------|-----|-------------|------------------|
//   | 01          | 15-03-2024 | F-1001 | P-77    | 12  | C-889       | 1250000          |
//
// Excelize trims trailing empty cells from a row, so short rows are padded
// with empty strings rather than treated as malformed.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/salesync/internal/types"
)

// Parse reads the first sheet of an XLSX workbook.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//
// RETURNS:
//   - The decoded table.
//   - types.ErrUnreadableSource if the workbook cannot be opened,
//     types.ErrMalformedSource if it has no sheet, no header, or a row wider
//     than the header.
func Parse(filePath string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrUnreadableSource, filePath, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: %s: workbook has no sheets", types.ErrMalformedSource, filePath)
	}

	// Raw values keep numbers free of display formatting (thousand
	// separators, currency symbols).
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read rows: %v", types.ErrMalformedSource, filePath, err)
	}

	table, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	table.SourceFile = filePath

	return table, nil
}

// FromRows turns the raw sheet grid into a table.
func FromRows(rows [][]string) (*types.Table, error) {
	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("%w: sheet has no header row", types.ErrMalformedSource)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &types.Table{Headers: headers}
	for i := 1; i < len(rows); i++ {
		cells := rows[i]

		// Skip fully blank rows, spreadsheet users leave them around.
		if isRowEmpty(cells) {
			continue
		}
		if len(cells) > len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d",
				types.ErrMalformedSource, i+1, len(cells), len(headers))
		}

		row := make(types.Row, len(headers))
		for c, h := range headers {
			if c < len(cells) {
				row[h] = strings.TrimSpace(cells[c])
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// isRowEmpty checks if a row has no non-blank cell.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
