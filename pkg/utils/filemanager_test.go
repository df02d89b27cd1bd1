package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 5, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		ext    string
		params map[string]string
		want   string
	}{
		{"timestamp", "sales_report_{timestamp}", "csv", nil, "sales_report_20240115_1430.csv"},
		{"date and time", "r_{date}_{time}", "xlsx", nil, "r_20240115_1430.xlsx"},
		{"extension kept", "fixed.csv", "csv", nil, "fixed.csv"},
		{"dotted extension", "out", ".XLSX", nil, "out.xlsx"},
		{"no extension", "out_{date}", "", nil, "out_20240115"},
		{"param overrides", "r_{timestamp}", "csv", map[string]string{"timestamp": "X"}, "r_X.csv"},
		{"custom param", "{dist}_{date}", "csv", map[string]string{"dist": "APL"}, "APL_20240115.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generateOutputFileName(now, tt.format, tt.ext, tt.params))
		})
	}
}

func TestGenerateOutputFileName_UUID(t *testing.T) {
	name := generateOutputFileName(time.Now(), "run_{uuid}", "csv", nil)

	assert.True(t, strings.HasPrefix(name, "run_"))
	assert.NotContains(t, name, "{uuid}")
	assert.Len(t, name, len("run_")+36+len(".csv"))
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a", "b")
	c := filepath.Join(root, "c")

	require.NoError(t, EnsureDirectories(a, "", c))
	assert.True(t, FileExists(a))
	assert.True(t, FileExists(c))
	assert.False(t, FileExists(filepath.Join(root, "missing")))
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	summary := ProcessingSummary{
		StartTime:         start,
		EndTime:           start.Add(90 * time.Second),
		TotalSources:      2,
		SuccessfulSources: 1,
		FailedSources:     1,
		TotalRows:         12,
		SalesPersisted:    10,
		OutletsCreated:    2,
		Processed: []ProcessedSourceInfo{
			{Distributor: "APL", InputFile: "apl.csv", Rows: 12, Skipped: 2, Sales: 10, Outlets: 2},
		},
		Failed: []FailedSourceInfo{
			{Distributor: "TSJ", InputFile: "tsj.dbf", ErrorMessage: "source unreadable"},
		},
	}

	path, err := WriteSummaryLog(summary, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ingest_summary_20240315_100130.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Duration:        1m30s")
	assert.Contains(t, text, "Persisted:    10 sales, 2 outlets")
	assert.Contains(t, text, "Error:       source unreadable")
	assert.True(t, strings.HasSuffix(text, "End of Summary\n"))
}

func TestWriteSummaryLog_MissingDir(t *testing.T) {
	_, err := WriteSummaryLog(ProcessingSummary{}, filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
