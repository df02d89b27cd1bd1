// =============================================================================
// Sales Sync - DBF Parser Module
// =============================================================================
//
// This module decodes indexed-binary (dBase/FoxPro) extracts, the TSJ sales
// file, into an ordered types.Table. One row is produced per physical record
// in file order; records flagged as deleted are dropped.
//
// VALUE RENDERING:
//   DBF columns are typed, the rest of the pipeline works on strings:
//     Date / DateTime -> "2006-01-02"
//     Numeric / Float -> shortest decimal form ("12", "1250000.5")
//     Logical         -> "true" / "false"
//     Character/Memo  -> trimmed text
//
// =============================================================================

package dbfparser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Valentin-Kaiser/go-dbase/dbase"

	"github.com/ginjaninja78/salesync/internal/types"
)

// Parse reads every live record of a DBF table.
//
// PARAMETERS:
//   - filePath: The path to the .dbf file.
//
// RETURNS:
//   - The decoded table.
//   - types.ErrUnreadableSource if the table cannot be opened,
//     types.ErrMalformedSource if a record cannot be decoded.
func Parse(filePath string) (*types.Table, error) {
	table, err := dbase.OpenTable(&dbase.Config{
		Filename:   filePath,
		TrimSpaces: true,
		Untested:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrUnreadableSource, filePath, err)
	}
	defer table.Close()

	columns := table.Columns()
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.TrimSpace(c.Name())
	}

	out := &types.Table{Headers: headers, SourceFile: filePath}
	for !table.EOF() {
		row, err := table.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedSource, filePath, err)
		}
		if row.Deleted {
			continue
		}

		values, err := row.ToMap()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedSource, filePath, err)
		}

		record := make(types.Row, len(headers))
		for _, h := range headers {
			record[h] = Stringify(values[h])
		}
		out.Rows = append(out.Rows, record)
	}

	return out, nil
}

// Stringify renders a decoded DBF value the way the normalizers expect.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
