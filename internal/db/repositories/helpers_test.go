package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"airspace-analytics/sectorcap/internal/db"
	"airspace-analytics/sectorcap/internal/models/entities"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := db.InitDuckDB(context.Background(), filepath.Join(t.TempDir(), "test.duckdb"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// flightRow builds a canonical row with the given column values set
func flightRow(values map[string]any) entities.FlightRow {
	row := make(entities.FlightRow, len(entities.FlightColumns))
	for i, c := range entities.FlightColumns {
		if v, ok := values[c.Name]; ok {
			row[i] = v
		}
	}
	return row
}

func loadFlights(t *testing.T, conn *sqlx.DB, fileName string, rows ...entities.FlightRow) int64 {
	t.Helper()
	ctx := context.Background()
	ledger := NewFileProcessingRepository(conn)
	flights := NewFlightRepository(conn)

	id, err := ledger.Begin(ctx, fileName)
	require.NoError(t, err)
	load, err := flights.BeginLoad(ctx, id)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, load.Add(r))
	}
	_, err = load.Commit()
	require.NoError(t, err)
	return id
}
