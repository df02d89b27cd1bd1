// =============================================================================
// Sales Sync - Validation Engine
// =============================================================================
//
// This module guards the two edges of normalization:
//   1. Entry: a source table must carry every column its normalizer maps.
//      A missing column rejects the whole source up front instead of
//      silently producing empty fields row after row.
//   2. Exit: a normalized transaction must carry the fields its identity
//      and outlet linkage depend on.
//
// ERROR HANDLING:
//   - Column problems return a single error wrapping types.ErrMissingColumns
//   - Transaction problems are collected as ValidationError values
//   - "error" severity drops the row, "warning" only logs it
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/salesync/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation problem on one row.
type ValidationError struct {
	// Severity indicates the severity of the error.
	// "error" = the row is dropped
	// "warning" = the row is kept and the problem logged
	Severity string

	// Field is the canonical field that failed validation.
	Field string

	// Value is the offending value.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// RowNumber is the 1-based data row in the source file.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// COLUMN VALIDATION
// =============================================================================

// RequireColumns checks that every required column is present in headers.
//
// RETURNS:
//   - nil when all are present.
//   - An error wrapping types.ErrMissingColumns listing the missing names
//     in sorted order.
func RequireColumns(headers []string, required []string) error {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}

	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	sort.Strings(missing)
	return fmt.Errorf("%w: %s", types.ErrMissingColumns, strings.Join(missing, ", "))
}

// =============================================================================
// TRANSACTION VALIDATION
// =============================================================================

// ValidateTransaction checks the fields a persisted transaction depends on.
//
// PARAMETERS:
//   - t: The normalized transaction.
//   - rowNumber: The source row, for messages.
//
// RETURNS:
//   - A slice of problems, empty if the transaction is valid.
func ValidateTransaction(t types.Transaction, rowNumber int) []*ValidationError {
	var errs []*ValidationError

	required := []struct {
		field string
		value string
	}{
		{"dist", t.Dist},
		{"nomor_faktur", t.InvoiceNo},
		{"item_code", t.ItemCode},
		{"kode_outlet", t.OutletCode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, &ValidationError{
				Severity:  SeverityError,
				Field:     r.field,
				Value:     r.value,
				Rule:      "required",
				Message:   "field is required",
				RowNumber: rowNumber,
			})
		}
	}

	if t.InvoiceDate.IsZero() {
		errs = append(errs, &ValidationError{
			Severity:  SeverityError,
			Field:     "tanggal_faktur",
			Rule:      "date",
			Message:   "invoice date is missing",
			RowNumber: rowNumber,
		})
	}

	if t.Quantity.IsZero() {
		errs = append(errs, &ValidationError{
			Severity:  SeverityWarning,
			Field:     "quantity",
			Value:     t.Quantity.String(),
			Rule:      "nonzero",
			Message:   "quantity is zero",
			RowNumber: rowNumber,
		})
	}

	return errs
}

// HasErrors reports whether any problem has error severity.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d problem(s):\n", len(errs)))
	for i, err := range errs {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
