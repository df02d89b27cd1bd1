// =============================================================================
// Sales Sync - File Manager Utility
// =============================================================================
//
// This module provides file utilities shared by the commands:
//   - Directory management
//   - Artifact file naming
//   - Run summary generation
//
// NAMING:
//   Report artifacts are named from a pattern with placeholders, so two runs in
//   different minutes never overwrite each other. The extension always follows
//   the artifact format.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an artifact file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMM)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMM)
//   - ext: The extension without the dot ("csv", "xlsx").
//   - params: Extra placeholder values.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "sales_report_{timestamp}"
//   ext:    "csv"
//   output: "sales_report_20240115_1430.csv"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	return generateOutputFileName(time.Now(), format, ext, params)
}

func generateOutputFileName(now time.Time, format, ext string, params map[string]string) string {
	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_1504"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("1504"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext == "" {
		return result
	}
	suffix := "." + strings.ToLower(strings.TrimPrefix(ext, "."))
	if !strings.HasSuffix(strings.ToLower(result), suffix) {
		result += suffix
	}
	return result
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about an ingest run.
type ProcessingSummary struct {
	StartTime time.Time
	EndTime   time.Time

	TotalSources      int
	SuccessfulSources int
	FailedSources     int

	TotalRows      int
	SkippedRows    int
	SalesPersisted int
	OutletsCreated int

	Processed []ProcessedSourceInfo
	Failed    []FailedSourceInfo
}

// ProcessedSourceInfo describes a successfully ingested source.
type ProcessedSourceInfo struct {
	Distributor string
	InputFile   string
	Rows        int
	Skipped     int
	Duplicates  int
	Sales       int
	Outlets     int
	ProcessTime time.Duration
}

// FailedSourceInfo describes a source whose ingestion aborted.
type FailedSourceInfo struct {
	Distributor  string
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary to a text file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("ingest_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	fmt.Fprintf(w, "Sales Sync - Ingest Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:      %s\n"+
		"  End Time:        %s\n"+
		"  Duration:        %s\n\n"+
		"Statistics:\n"+
		"  Total Sources:   %d\n"+
		"  Successful:      %d\n"+
		"  Failed:          %d\n"+
		"  Total Rows:      %d\n"+
		"  Skipped Rows:    %d\n"+
		"  Sales Persisted: %d\n"+
		"  Outlets Created: %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.TotalSources,
		summary.SuccessfulSources,
		summary.FailedSources,
		summary.TotalRows,
		summary.SkippedRows,
		summary.SalesPersisted,
		summary.OutletsCreated)

	if len(summary.Processed) > 0 {
		w.WriteString("Successful Sources:\n")
		w.WriteString("--------------------------------------------------------------------------------\n")
		for _, p := range summary.Processed {
			fmt.Fprintf(w, "  Distributor:  %s\n", p.Distributor)
			fmt.Fprintf(w, "  Input:        %s\n", p.InputFile)
			fmt.Fprintf(w, "  Rows:         %d (skipped %d, duplicates %d)\n", p.Rows, p.Skipped, p.Duplicates)
			fmt.Fprintf(w, "  Persisted:    %d sales, %d outlets\n", p.Sales, p.Outlets)
			fmt.Fprintf(w, "  Process Time: %s\n\n", p.ProcessTime.String())
		}
	}

	if len(summary.Failed) > 0 {
		w.WriteString("Failed Sources:\n")
		w.WriteString("--------------------------------------------------------------------------------\n")
		for _, f := range summary.Failed {
			fmt.Fprintf(w, "  Distributor: %s\n", f.Distributor)
			fmt.Fprintf(w, "  File:        %s\n", f.InputFile)
			fmt.Fprintf(w, "  Error:       %s\n\n", f.ErrorMessage)
		}
	}

	w.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
