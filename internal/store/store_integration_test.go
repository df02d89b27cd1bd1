package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ginjaninja78/salesync/internal/config"
	"github.com/ginjaninja78/salesync/internal/types"
)

// startMySQL runs a throwaway MySQL 8 container and returns a migrated store.
// Set INTEGRATION_TESTS=true to enable.
func startMySQL(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "true" {
		t.Skip("set INTEGRATION_TESTS=true to run MySQL integration tests")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_DATABASE":      "sales",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").
			WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	st, err := Open(ctx, config.DatabaseConfig{
		User:            "root",
		Password:        "secret",
		Host:            host,
		Port:            port.Port(),
		Name:            "sales",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnectAttempts: 5,
	}, logger)
	require.NoError(t, err, fmt.Sprintf("mysql on %s:%s", host, port.Port()))
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Migrate(0, false))
	return st
}

func TestStore_PersistAndDedupQueries(t *testing.T) {
	st := startMySQL(t)
	ctx := context.Background()

	outlets := []types.Outlet{{Code: "123", Distributor: "APL-BDG", DisID: "1101", Name: "Apotek Sehat", Type: "APT"}}
	sales := []types.Transaction{sale("INV1", "A"), sale("INV1", "B"), sale("INV2", "A")}

	res, err := st.PersistBatch(ctx, sales, outlets)
	require.NoError(t, err)
	assert.Equal(t, PersistResult{Sales: 3, Outlets: 1}, res)

	keys, err := st.ExistingSaleKeys(ctx, []string{"INV1"})
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, types.SaleKey{Dist: "APL-BDG", InvoiceNo: "INV1", ItemCode: "B"})

	codes, err := st.ExistingOutletCodes(ctx, "APL")
	require.NoError(t, err)
	assert.Contains(t, codes, "123")

	codes, err = st.ExistingOutletCodes(ctx, "PPG")
	require.NoError(t, err)
	assert.Empty(t, codes)

	// A second insert of the same outlet violates the unique key and rolls
	// the whole batch back.
	_, err = st.PersistBatch(ctx, []types.Transaction{sale("INV9", "A")}, outlets)
	require.Error(t, err)
	keys, err = st.ExistingSaleKeys(ctx, []string{"INV9"})
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_ReportAndLedger(t *testing.T) {
	st := startMySQL(t)
	ctx := context.Background()

	_, err := st.PersistBatch(ctx,
		[]types.Transaction{sale("INV1", "A")},
		[]types.Outlet{{Code: "123", Distributor: "APL-BDG", DisID: "1101", Name: "Apotek Sehat"}},
	)
	require.NoError(t, err)

	rows, err := st.ReportRows(ctx, Period{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "INV1", rows[0].InvoiceNo)
	assert.Nil(t, rows[0].HierarchyID)
	assert.Nil(t, rows[0].ProID)

	unmapped, err := st.UnmappedOutlets(ctx)
	require.NoError(t, err)
	require.Len(t, unmapped, 1)
	assert.Equal(t, "123", unmapped[0].Code)

	ids, err := st.LedgerMaxIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, st.InsertLedger(ctx, []types.LedgerRow{{
		ComID: "C1", SLHID: 7, Year: 2024, Month: 3,
		InvoiceDate: rows[0].InvoiceDate, InvoiceNo: "INV1", ProID: "42", Bonus: 1,
	}}))
	ids, err = st.LedgerMaxIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"C1": 7}, ids)
}
