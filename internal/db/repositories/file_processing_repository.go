package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/models/entities"
)

// FileProcessingRepository is the file-processing ledger
type FileProcessingRepository struct {
	db *sqlx.DB
}

func NewFileProcessingRepository(db *sqlx.DB) *FileProcessingRepository {
	return &FileProcessingRepository{db: db}
}

// Begin replaces any prior ledger row for fileName, together with its flights,
// and inserts a PROCESSING row. It returns the new surrogate id.
func (r *FileProcessingRepository) Begin(ctx context.Context, fileName string) (int64, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	// DuckDB rejects re-inserting a unique key deleted in the same transaction,
	// so the prior row goes first in its own transaction.
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var prior entities.FileProcessingRecord
	err = tx.GetContext(ctx, &prior, constants.GetFileRecordByName, fileName)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return 0, fmt.Errorf("look up ledger row: %w", err)
	default:
		if err := deleteRecord(ctx, tx, prior.ID); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	var id int64
	if err := conn.QueryRowxContext(ctx, constants.InsertFileRecord,
		fileName, time.Now().UTC(), string(constants.FileStatusProcessing),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert ledger row: %w", err)
	}
	return id, nil
}

func (r *FileProcessingRepository) Complete(ctx context.Context, id, rowCount int64) error {
	return completeRecord(ctx, r.db, id, rowCount)
}

func (r *FileProcessingRepository) Fail(ctx context.Context, id int64, message string) error {
	return r.finish(ctx, id, constants.FileStatusError, message)
}

func (r *FileProcessingRepository) Skip(ctx context.Context, id int64, message string) error {
	return r.finish(ctx, id, constants.FileStatusSkipped, message)
}

func (r *FileProcessingRepository) finish(ctx context.Context, id int64, status constants.FileStatus, message string) error {
	_, err := r.db.ExecContext(ctx, constants.FinishFileRecordWithMessage,
		string(status), message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark ledger row %d %s: %w", id, status, err)
	}
	return nil
}

// GetByName returns the ledger row of a file, or nil when it has none
func (r *FileProcessingRepository) GetByName(ctx context.Context, fileName string) (*entities.FileProcessingRecord, error) {
	var rec entities.FileProcessingRecord
	err := r.db.GetContext(ctx, &rec, constants.GetFileRecordByName, fileName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// History lists the most recently processed files first
func (r *FileProcessingRepository) History(ctx context.Context, limit int) ([]entities.FileProcessingRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	records := []entities.FileProcessingRecord{}
	if err := r.db.SelectContext(ctx, &records, constants.ListFileRecords, limit); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the ledger row of fileName and every flight loaded from it.
// It reports whether a row existed.
func (r *FileProcessingRepository) Delete(ctx context.Context, fileName string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var rec entities.FileProcessingRecord
	err = tx.GetContext(ctx, &rec, constants.GetFileRecordByName, fileName)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := deleteRecord(ctx, tx, rec.ID); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *FileProcessingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, constants.CountFileRecords)
	return n, err
}

func deleteRecord(ctx context.Context, tx *sqlx.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, constants.DeleteFlightsByFileID, id); err != nil {
		return fmt.Errorf("delete flights of file %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, constants.DeleteFileRecordByID, id); err != nil {
		return fmt.Errorf("delete ledger row %d: %w", id, err)
	}
	return nil
}

func completeRecord(ctx context.Context, exec sqlx.ExecerContext, id, rowCount int64) error {
	_, err := exec.ExecContext(ctx, constants.CompleteFileRecord,
		string(constants.FileStatusCompleted), rowCount, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("complete ledger row %d: %w", id, err)
	}
	return nil
}
