package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRaw(t *testing.T, path string) *sqlx.DB {
	t.Helper()
	conn, err := sqlx.Open(DriverName, path)
	require.NoError(t, err)
	return conn
}

func TestInitDuckDB_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sectorcap.duckdb")

	conn, err := InitDuckDB(ctx, path)
	require.NoError(t, err)
	defer conn.Close()

	for _, table := range []string{"flights", "file_processing_control", "sectors", "regions", "region_airports"} {
		var n int
		err := conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestRepairFlightsSchema_LegacyTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.duckdb")

	legacy := openRaw(t, path)
	_, err := legacy.ExecContext(ctx, `CREATE TABLE flights (id BIGINT, fecha DATE, sid BIGINT, origen VARCHAR)`)
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx, `INSERT INTO flights VALUES (1, DATE '2024-01-01', 123, 'SKBO')`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	conn, err := InitDuckDB(ctx, path)
	require.NoError(t, err)
	defer conn.Close()

	var cols []struct {
		Name string `db:"column_name"`
		Type string `db:"data_type"`
	}
	require.NoError(t, conn.SelectContext(ctx, &cols, `SELECT column_name, data_type FROM information_schema.columns WHERE table_name = 'flights'`))

	types := map[string]string{}
	for _, c := range cols {
		types[c.Name] = c.Type
	}
	assert.Equal(t, "VARCHAR", types["sid"])
	assert.Contains(t, types, "file_id")

	var sid string
	require.NoError(t, conn.GetContext(ctx, &sid, `SELECT sid FROM flights`))
	assert.Equal(t, "123", sid)
}

func TestReconcileFileSequence_AdvancesPastMaxID(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seq.duckdb")

	conn, err := InitDuckDB(ctx, path)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `INSERT INTO file_processing_control (id, file_name, processed_at, status) VALUES (41, 'a.csv', now(), 'COMPLETED')`)
	require.NoError(t, err)

	require.NoError(t, ReconcileFileSequence(ctx, conn))

	var next int64
	require.NoError(t, conn.GetContext(ctx, &next, `SELECT nextval('seq_file_processing_id')`))
	assert.Greater(t, next, int64(41))
	require.NoError(t, conn.Close())

	reopened, err := InitDuckDB(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	require.NoError(t, reopened.GetContext(ctx, &next, `SELECT nextval('seq_file_processing_id')`))
	assert.Greater(t, next, int64(41))
}

func TestResetIngestionTables_KeepsSectors(t *testing.T) {
	ctx := context.Background()
	conn, err := InitDuckDB(ctx, filepath.Join(t.TempDir(), "reset.duckdb"))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `INSERT INTO sectors (id, name, definition, created_at, updated_at) VALUES ('s1', 'North', '{}', now(), now())`)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `INSERT INTO flights (id, file_id) VALUES (1, 1)`)
	require.NoError(t, err)

	require.NoError(t, ResetIngestionTables(ctx, conn))

	var flights, sectors int
	require.NoError(t, conn.GetContext(ctx, &flights, `SELECT COUNT(*) FROM flights`))
	require.NoError(t, conn.GetContext(ctx, &sectors, `SELECT COUNT(*) FROM sectors`))
	assert.Equal(t, 0, flights)
	assert.Equal(t, 1, sectors)
}
