// =============================================================================
// Sales Sync - CSV Parser Module
// =============================================================================
//
// This module decodes delimited-text extracts (the APL sales file and its
// outlet-detail companion) into an ordered types.Table.
//
// BEHAVIOUR:
//   - The first record is the header; header names are trimmed
//   - A UTF-8 byte order mark on the first header is removed
//   - Field values are trimmed
//   - Blank lines are skipped
//   - Every record must have the header's column count, otherwise the file
//     is reported as malformed
//   - Record order is preserved
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/salesync/internal/types"
)

// Options controls the CSV dialect.
type Options struct {
	// Delimiter accepts a literal character or one of the names
	// "tab", "pipe", "semicolon". Default: ","
	Delimiter string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file using the default comma dialect.
func Parse(filePath string) (*types.Table, error) {
	return ParseWithOptions(filePath, Options{})
}

// ParseWithOptions reads a CSV file and returns the decoded table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - opts: Dialect options.
//
// RETURNS:
//   - The decoded table.
//   - types.ErrUnreadableSource if the file cannot be opened,
//     types.ErrMalformedSource if it cannot be parsed.
func ParseWithOptions(filePath string, opts Options) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrUnreadableSource, filePath, err)
	}
	defer file.Close()

	table, err := ParseReader(bufio.NewReader(file), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	table.SourceFile = filePath

	return table, nil
}

// ParseReader decodes CSV from an arbitrary reader.
func ParseReader(r io.Reader, opts Options) (*types.Table, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, opts)

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", types.ErrMalformedSource)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedSource, err)
	}
	headers := cleanHeaders(header)

	table := &types.Table{Headers: headers}
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ErrFieldCount lands here for ragged rows.
			return nil, fmt.Errorf("%w: %v", types.ErrMalformedSource, err)
		}

		row := make(types.Row, len(headers))
		for i, h := range headers {
			row[h] = strings.TrimSpace(record[i])
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// configureReader applies the dialect to the reader.
func configureReader(reader *csv.Reader, opts Options) {
	switch opts.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(opts.Delimiter) > 0 {
			reader.Comma = rune(opts.Delimiter[0])
		}
	}

	// 0 pins every record to the header's field count.
	reader.FieldsPerRecord = 0

	// Distributor exports are not strict about quoting.
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims header names and drops a leading BOM.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned
}
