// =============================================================================
// Sales Sync - Source Normalizers
// =============================================================================
//
// Every distributor ships its extract in its own layout. A Normalizer maps one
// raw row of that layout onto types.Transaction, or tells the caller to skip
// the row.
//
// REGISTERED SOURCES:
//   APL - delimited text (CSV), see apl.go
//   PPG - spreadsheet (XLSX), see ppg.go
//   TSJ - indexed binary table (DBF), see tsj.go
//
// ROW WINDOW:
//   The known layouts open with a sentinel row and close with a footer row.
//   NormalizeAll therefore only looks at rows[1 : len-1].
//
// =============================================================================

package normalizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/salesync/internal/types"
	"github.com/ginjaninja78/salesync/internal/validation"
)

// AllDistributors is the pseudo-name expanding to every registered source.
const AllDistributors = "ALL"

// Normalizer maps raw rows of one distributor layout onto transactions.
type Normalizer interface {
	// Distributor returns the upper-case source name, e.g. "APL".
	Distributor() string

	// RequiredColumns lists the source columns Normalize reads.
	RequiredColumns() []string

	// Normalize maps one row. A *SkipError means the row is dropped and the
	// run continues.
	Normalize(row types.Row) (types.Transaction, error)
}

// Tables carries the configurable lookup tables normalizers depend on.
type Tables struct {
	CityAbbreviations map[string]string
	OutletTypes       map[string]string
}

// =============================================================================
// SKIP SIGNAL
// =============================================================================

// SkipError signals that a row must be dropped without failing the run.
type SkipError struct {
	Reason string
	Cause  error
}

func (e *SkipError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("skip: %s: %v", e.Reason, e.Cause)
	}
	return "skip: " + e.Reason
}

func (e *SkipError) Unwrap() error { return e.Cause }

func skip(reason string, cause error) *SkipError {
	return &SkipError{Reason: reason, Cause: cause}
}

// =============================================================================
// REGISTRY
// =============================================================================

// Distributors returns the registered source names in sorted order.
func Distributors() []string {
	return []string{"APL", "PPG", "TSJ"}
}

// Expand resolves a CLI distributor argument to concrete source names.
func Expand(name string) ([]string, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == AllDistributors {
		return Distributors(), nil
	}
	for _, d := range Distributors() {
		if d == upper {
			return []string{d}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownDistributor, name)
}

// ForDistributor returns the normalizer for a source name.
func ForDistributor(name string, tables Tables) (Normalizer, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "APL":
		return NewAPL(tables), nil
	case "PPG":
		return NewPPG(), nil
	case "TSJ":
		return NewTSJ(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownDistributor, name)
	}
}

// =============================================================================
// BATCH NORMALIZATION
// =============================================================================

// Normalized is one accepted transaction with its source position.
type Normalized struct {
	Transaction types.Transaction

	// Row is the 0-based index into the source table.
	Row int
}

// Skipped describes a dropped row.
type Skipped struct {
	Row    int
	Reason string
	Err    error
}

// Batch is the outcome of normalizing one table.
type Batch struct {
	Accepted []Normalized
	Skipped  []Skipped

	// Warnings are non-fatal validation findings on accepted rows.
	Warnings []*validation.ValidationError
}

// NormalizeAll checks required columns and maps the row window of table.
//
// RETURNS:
//   - The batch of accepted and skipped rows.
//   - An error wrapping types.ErrMissingColumns if the table cannot be
//     normalized at all.
func NormalizeAll(n Normalizer, table *types.Table) (*Batch, error) {
	if err := validation.RequireColumns(table.Headers, n.RequiredColumns()); err != nil {
		return nil, fmt.Errorf("%s: %w", n.Distributor(), err)
	}

	batch := &Batch{}
	for i := 1; i < len(table.Rows)-1; i++ {
		t, err := n.Normalize(table.Rows[i])
		if err != nil {
			var se *SkipError
			if errors.As(err, &se) {
				batch.Skipped = append(batch.Skipped, Skipped{Row: i, Reason: se.Reason, Err: se})
				continue
			}
			return nil, fmt.Errorf("%s row %d: %w", n.Distributor(), i+1, err)
		}

		problems := validation.ValidateTransaction(t, i+1)
		if validation.HasErrors(problems) {
			batch.Skipped = append(batch.Skipped, Skipped{
				Row:    i,
				Reason: "invalid transaction",
				Err:    errors.New(validation.FormatErrors(problems)),
			})
			continue
		}
		batch.Warnings = append(batch.Warnings, problems...)
		batch.Accepted = append(batch.Accepted, Normalized{Transaction: t, Row: i})
	}

	return batch, nil
}

// InvoiceNumbers returns the distinct invoice numbers of the accepted rows in
// sorted order. It bounds the existing-key lookup to the batch.
func InvoiceNumbers(batch *Batch) []string {
	seen := make(map[string]struct{})
	for _, a := range batch.Accepted {
		seen[a.Transaction.InvoiceNo] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// columnList flattens a mapping table into its source column names.
func columnList(cols ...string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
