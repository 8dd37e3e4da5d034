package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jmoiron/sqlx"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/logging"
)

const DriverName = "duckdb"

func init() {
	sqlx.BindDriver(DriverName, sqlx.QUESTION)
}

// InitDuckDB opens the analytics database file, creating its directory, and
// prepares the schema. One handle serves the whole process; every operation
// checks out its own connection from it.
func InitDuckDB(ctx context.Context, path string) (*sqlx.DB, error) {
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	conn, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %q: %w", path, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping duckdb %q: %w", path, err)
	}

	if err := EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	RepairFlightsSchema(ctx, conn)
	if err := ReconcileFileSequence(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	logging.Info("DuckDB ready", "path", path)
	return conn, nil
}

// EnsureSchema creates missing tables and the ledger sequence
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		constants.CreateFileSequence,
		constants.CreateFileProcessingTable,
		constants.CreateFlightsTable,
		constants.CreateSectorsTable,
		constants.CreateRegionsTable,
		constants.CreateRegionAirportsTable,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// RepairFlightsSchema fixes tables created by older installations: sid typed
// as a number and a missing file_id column. Failures are logged only.
func RepairFlightsSchema(ctx context.Context, db *sqlx.DB) {
	var cols []struct {
		Name string `db:"column_name"`
		Type string `db:"data_type"`
	}
	if err := db.SelectContext(ctx, &cols, constants.TableColumns, "flights"); err != nil {
		logging.Warn("Could not inspect flights schema", "error", err.Error())
		return
	}

	types := make(map[string]string, len(cols))
	for _, c := range cols {
		types[c.Name] = strings.ToUpper(c.Type)
	}

	if t, ok := types["sid"]; ok && t != "VARCHAR" {
		if _, err := db.ExecContext(ctx, constants.AlterFlightsSidToVarchar); err != nil {
			logging.Error("Failed to retype flights.sid", "from", t, "error", err.Error())
		} else {
			logging.Info("Retyped flights.sid to VARCHAR", "from", t)
		}
	}

	if _, ok := types["file_id"]; !ok {
		if _, err := db.ExecContext(ctx, constants.AddFlightsFileIDColumn); err != nil {
			logging.Error("Failed to add flights.file_id", "error", err.Error())
		} else {
			logging.Info("Added flights.file_id column")
		}
	}
}

// ReconcileFileSequence moves the ledger sequence past max(id). DuckDB does not
// always restore a sequence's position on reopen, so the sequence is recreated
// with a START above the highest stored id when it has fallen behind.
func ReconcileFileSequence(ctx context.Context, db *sqlx.DB) error {
	conn, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("reconcile sequence: %w", err)
	}
	defer conn.Close()

	var maxID, next int64
	if err := conn.GetContext(ctx, &maxID, constants.MaxFileID); err != nil {
		return fmt.Errorf("read max ledger id: %w", err)
	}
	if err := conn.GetContext(ctx, &next, constants.NextFileID); err != nil {
		return fmt.Errorf("read ledger sequence: %w", err)
	}
	if next > maxID {
		return nil
	}

	if _, err := conn.ExecContext(ctx, constants.DropFileSequence); err != nil {
		return fmt.Errorf("drop ledger sequence: %w", err)
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(constants.RestartFileSequenceFmt, maxID+1)); err != nil {
		return fmt.Errorf("recreate ledger sequence: %w", err)
	}
	logging.Warn("Ledger sequence was behind stored ids, advanced", "sequence_value", next, "max_id", maxID)
	return nil
}

// ResetIngestionTables drops and recreates flights, the ledger and its
// sequence. Sectors and region reference data are kept.
func ResetIngestionTables(ctx context.Context, db *sqlx.DB) error {
	conn, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	defer conn.Close()

	stmts := []string{
		constants.DropFlightsTable,
		constants.DropFileProcessingTable,
		constants.DropFileSequence,
		constants.CreateFileSequence,
		constants.CreateFileProcessingTable,
		constants.CreateFlightsTable,
	}
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	logging.Warn("Flights and file ledger were reset")
	return nil
}
