package outlet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/salesync/internal/types"
)

func sale(code string) types.Transaction {
	return types.Transaction{Dist: "APL-BDG", DisID: "1101", OutletCode: code}
}

func TestResolver_StagesAtMostOnce(t *testing.T) {
	details := map[string]Detail{
		"123": {Name: "Apotek Sehat", City: "Kota Bandung", Address: "Jl. Merdeka 1", Group: "01"},
	}
	r := NewResolver(details, nil, map[string]string{"01": "APT"})

	assert.Equal(t, Staged, r.Resolve(sale("123")))
	for i := 0; i < 5; i++ {
		assert.Equal(t, Known, r.Resolve(sale("123")))
	}

	staged := r.Staged()
	require.Len(t, staged, 1)
	assert.Equal(t, "123", staged[0].Code)
	assert.Equal(t, "APL-BDG", staged[0].Distributor)
	assert.Equal(t, "1101", staged[0].DisID)
	assert.Equal(t, "Apotek Sehat", staged[0].Name)
	assert.Equal(t, "Bandung", staged[0].City)
	assert.Equal(t, "APT", staged[0].Type)
	assert.Nil(t, staged[0].OutID)
}

func TestResolver_ExistingOutletIsKnown(t *testing.T) {
	details := map[string]Detail{"123": {Name: "Apotek Sehat"}}
	r := NewResolver(details, map[string]struct{}{"123": {}}, nil)

	assert.Equal(t, Known, r.Resolve(sale("123")))
	assert.Empty(t, r.Staged())
}

func TestResolver_NoDetail(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	assert.Equal(t, NoDetail, r.Resolve(sale("900")))
	assert.Equal(t, NoDetail, r.Resolve(sale("777")))
	assert.Equal(t, NoDetail, r.Resolve(sale("900")))

	assert.Empty(t, r.Staged())
	assert.Equal(t, []string{"777", "900"}, r.MissingDetail())
}

func TestResolution_String(t *testing.T) {
	assert.Equal(t, "known", Known.String())
	assert.Equal(t, "staged", Staged.String())
	assert.Equal(t, "no_detail", NoDetail.String())
}
