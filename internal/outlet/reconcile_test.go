package outlet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/salesync/internal/types"
)

type fakeLinkStore struct {
	values  map[string]map[string]struct{}
	applied []types.OutletLink
}

func (f *fakeLinkStore) ExistingValues(_ context.Context, _, column string, values []string) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	for _, v := range values {
		if _, ok := f.values[column][v]; ok {
			found[v] = struct{}{}
		}
	}
	return found, nil
}

func (f *fakeLinkStore) UpdateOutletLinks(_ context.Context, links []types.OutletLink) (int64, error) {
	f.applied = append(f.applied, links...)
	return int64(len(links)), nil
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{values: map[string]map[string]struct{}{
		"comid": {"C1": {}},
		"outid": {"O1": {}, "O2": {}},
		"mrid":  {"MR1": {}},
	}}
}

func writeLinks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "links.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportLinks(t *testing.T) {
	st := newFakeLinkStore()
	path := writeLinks(t, "Outlet Code,comid,Outid,MRID\n"+
		"123,C1,O1,MR1\n"+
		"456,,O2,\n"+
		"789,,,\n"+
		",C1,O1,MR1\n")

	n, err := ImportLinks(context.Background(), st, path)
	require.NoError(t, err)

	assert.Equal(t, int64(2), n)
	require.Len(t, st.applied, 2)
	assert.Equal(t, types.OutletLink{Code: "123", ComID: "C1", OutID: "O1", MRID: "MR1"}, st.applied[0])
	assert.Equal(t, types.OutletLink{Code: "456", OutID: "O2"}, st.applied[1])
}

func TestImportLinks_InvalidReferencesWriteNothing(t *testing.T) {
	st := newFakeLinkStore()
	path := writeLinks(t, "Outlet Code,comid,Outid,MRID\n"+
		"123,C1,O1,MR1\n"+
		"456,C9,O1,MR7\n")

	_, err := ImportLinks(context.Background(), st, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid comid: C9")
	assert.Contains(t, err.Error(), "Invalid mrid: MR7")
	assert.NotContains(t, err.Error(), "Invalid outid")
	assert.Empty(t, st.applied)
}

func TestLinksFromTable_RequiresCodeColumn(t *testing.T) {
	_, err := LinksFromTable(&types.Table{Headers: []string{"comid"}})
	assert.ErrorIs(t, err, types.ErrMissingColumns)
}
