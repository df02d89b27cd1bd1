package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/salesync/internal/types"
)

type fakeWriter struct {
	rows  []types.LedgerRow
	calls int
	err   error
}

func (f *fakeWriter) InsertLedger(_ context.Context, rows []types.LedgerRow) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, rows...)
	return nil
}

type fakeMaxReader struct {
	max   map[string]int64
	calls int
}

func (f *fakeMaxReader) LedgerMaxIDs(context.Context) (map[string]int64, error) {
	f.calls++
	return f.max, nil
}

func ptr(s string) *string { return &s }

func line(comid, proid, invoice string) types.ReportLine {
	var pid *string
	if proid != "" {
		pid = ptr(proid)
	}
	return types.ReportLine{
		ReportRow: types.ReportRow{
			Year:        2024,
			Month:       3,
			ComID:       ptr(comid),
			DisID:       ptr("1101 APL"),
			Distributor: "APL-BDG",
			InvoiceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			InvoiceNo:   invoice,
			OutletCode:  "123",
			ProID:       pid,
			Quantity:    decimal.NewFromInt(2),
			Value:       decimal.NewFromInt(100),
			NetValue:    decimal.NewFromInt(80),
		},
		DiscountAmount:  decimal.NewFromInt(20),
		DiscountPercent: decimal.RequireFromString("0.2"),
	}
}

func TestSubmit_AssignsSequentialIDsPerEntity(t *testing.T) {
	w := &fakeWriter{}
	seq := NewDBSequence(&fakeMaxReader{max: map[string]int64{"C1": 10}})
	logger, _ := logtest.NewNullLogger()
	s := NewSubmitter(w, seq, logger)

	lines := []types.ReportLine{
		line("C1", "P1", "INV1"),
		line("C2", "P1", "INV2"),
		line("C1", "P2", "INV3"),
	}

	n, err := s.Submit(context.Background(), lines)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, w.calls, "one writer call")

	require.Len(t, w.rows, 3)
	assert.Equal(t, "C1", w.rows[0].ComID)
	assert.Equal(t, int64(11), w.rows[0].SLHID)
	assert.Equal(t, "C2", w.rows[1].ComID)
	assert.Equal(t, int64(1), w.rows[1].SLHID)
	assert.Equal(t, int64(12), w.rows[2].SLHID)

	r := w.rows[0]
	assert.Equal(t, "1101", r.DisID)
	assert.Equal(t, "P1", r.ProID)
	assert.Equal(t, 1, r.Bonus)
	assert.True(t, r.DiscBerno.Equal(r.DiscPercent))
	assert.True(t, decimal.NewFromInt(100).Equal(r.OriginalValue))
	assert.True(t, r.DiscDistributor.IsZero())
}

func TestSubmit_MissingProductAbortsEverything(t *testing.T) {
	w := &fakeWriter{}
	reader := &fakeMaxReader{}
	logger, hook := logtest.NewNullLogger()
	s := NewSubmitter(w, NewDBSequence(reader), logger)

	lines := []types.ReportLine{
		line("C1", "P1", "INV1"),
		line("C1", "", "INV2"),
	}

	n, err := s.Submit(context.Background(), lines)
	assert.ErrorIs(t, err, types.ErrMissingProductMapping)
	assert.Zero(t, n)
	assert.Zero(t, w.calls)
	assert.Zero(t, reader.calls, "no ids are reserved")

	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "1 rows have missing Product IDs")
}

func TestSubmit_Empty(t *testing.T) {
	w := &fakeWriter{}
	logger, _ := logtest.NewNullLogger()
	s := NewSubmitter(w, NewDBSequence(&fakeMaxReader{}), logger)

	n, err := s.Submit(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, w.calls)
}

func TestSubmit_WriteErrorPropagates(t *testing.T) {
	w := &fakeWriter{err: errors.New("deadlock")}
	logger, _ := logtest.NewNullLogger()
	s := NewSubmitter(w, NewDBSequence(&fakeMaxReader{}), logger)

	_, err := s.Submit(context.Background(), []types.ReportLine{line("C1", "P1", "INV1")})
	assert.ErrorContains(t, err, "deadlock")
}

func TestDBSequence_ReadsMaxOnce(t *testing.T) {
	reader := &fakeMaxReader{max: map[string]int64{"C1": 5}}
	seq := NewDBSequence(reader)
	ctx := context.Background()

	first, err := seq.Reserve(ctx, "C1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(6), first)

	next, err := seq.Reserve(ctx, "C1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), next)

	fresh, err := seq.Reserve(ctx, "C9", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh)

	assert.Equal(t, 1, reader.calls)
}
