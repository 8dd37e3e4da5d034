package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/models/entities"
)

const defaultInsertBatch = 200

// FlightRepository writes the flights fact table
type FlightRepository struct {
	db        *sqlx.DB
	batchSize int
}

func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db, batchSize: defaultInsertBatch}
}

// BeginLoad opens the transaction that carries one file's rows and its ledger
// completion. Callers must Commit or Rollback the returned load.
func (r *FlightRepository) BeginLoad(ctx context.Context, fileID int64) (*FlightLoad, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &FlightLoad{
		ctx:       ctx,
		conn:      conn,
		tx:        tx,
		fileID:    fileID,
		batchSize: r.batchSize,
		rowSQL:    rowPlaceholder(),
	}, nil
}

func (r *FlightRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, constants.CountFlights)
	return n, err
}

func (r *FlightRepository) CountByFileID(ctx context.Context, fileID int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, constants.CountFlightsByFileID, fileID)
	return n, err
}

// CountOrphans counts flights whose file_id has no ledger row
func (r *FlightRepository) CountOrphans(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, constants.CountOrphanFlights)
	return n, err
}

// FlightLoad buffers rows of one file and inserts them in multi-row batches
type FlightLoad struct {
	ctx       context.Context
	conn      *sqlx.Conn
	tx        *sqlx.Tx
	fileID    int64
	batchSize int
	rowSQL    string

	pending []entities.FlightRow
	rows    int64
	done    bool
}

// Add queues one row; the file_id slot is overwritten with the load's file id
func (l *FlightLoad) Add(row entities.FlightRow) error {
	if len(row) != len(entities.FlightColumns) {
		return fmt.Errorf("flight row has %d values, want %d", len(row), len(entities.FlightColumns))
	}
	row[fileIDIndex] = l.fileID
	l.pending = append(l.pending, row)
	if len(l.pending) >= l.batchSize {
		return l.flush()
	}
	return nil
}

// Rows returns the number of rows added so far
func (l *FlightLoad) Rows() int64 {
	return l.rows + int64(len(l.pending))
}

// Commit flushes pending rows, marks the ledger row COMPLETED and commits.
// It returns the row count stored.
func (l *FlightLoad) Commit() (int64, error) {
	if l.done {
		return 0, fmt.Errorf("flight load for file %d already finished", l.fileID)
	}
	defer l.release()

	if err := l.flush(); err != nil {
		return 0, err
	}
	if err := completeRecord(l.ctx, l.tx, l.fileID, l.rows); err != nil {
		return 0, err
	}
	if err := l.tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit flights of file %d: %w", l.fileID, err)
	}
	return l.rows, nil
}

// Rollback discards every row of the load. Safe after Commit.
func (l *FlightLoad) Rollback() {
	if l.done {
		return
	}
	defer l.release()
	l.tx.Rollback()
}

func (l *FlightLoad) release() {
	l.done = true
	l.pending = nil
	l.conn.Close()
}

func (l *FlightLoad) flush() error {
	if len(l.pending) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(insertPrefix)
	args := make([]any, 0, len(l.pending)*len(entities.FlightColumns))
	for i, row := range l.pending {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(l.rowSQL)
		args = append(args, row...)
	}

	if _, err := l.tx.ExecContext(l.ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert flights batch: %w", err)
	}
	l.rows += int64(len(l.pending))
	l.pending = l.pending[:0]
	return nil
}

var (
	fileIDIndex  = columnIndex(entities.ColFileID)
	insertPrefix = "INSERT INTO flights (" + strings.Join(entities.FlightColumnNames(), ", ") + ") VALUES "
)

func columnIndex(name string) int {
	for i, c := range entities.FlightColumns {
		if c.Name == name {
			return i
		}
	}
	panic("unknown flight column " + name)
}

// rowPlaceholder casts every parameter to its column type, so sid stays
// VARCHAR even when every value in a batch looks numeric.
func rowPlaceholder() string {
	parts := make([]string, len(entities.FlightColumns))
	for i, c := range entities.FlightColumns {
		parts[i] = "CAST(? AS " + c.Kind.SQLType() + ")"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
