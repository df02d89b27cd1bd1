package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/salesync/internal/types"
)

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want types.SourceKind
	}{
		{"/stage/apl.csv", types.KindCSV},
		{"/stage/PPG.XLSX", types.KindXLSX},
		{"tsj.dbf", types.KindDBF},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := KindFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindFromPath_Unsupported(t *testing.T) {
	for _, p := range []string{"report.xls", "notes.txt", "noext"} {
		_, err := KindFromPath(p)
		assert.ErrorIs(t, err, types.ErrUnreadableSource, p)
	}
}

func TestReadPath_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apl.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0644))

	table, err := ReadPath(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2", table.Rows[0]["b"])
}

func TestRead_UnknownKind(t *testing.T) {
	_, err := Read("x", types.SourceKind("parquet"))
	assert.ErrorIs(t, err, types.ErrUnreadableSource)
}
