package entities

import (
	"database/sql"
	"time"
)

// FileProcessingRecord is one row of the file_processing_control ledger
type FileProcessingRecord struct {
	ID           int64          `db:"id" json:"id"`
	FileName     string         `db:"file_name" json:"file_name"`
	ProcessedAt  time.Time      `db:"processed_at" json:"processed_at"`
	Status       string         `db:"status" json:"status"`
	RowCount     sql.NullInt64  `db:"row_count" json:"-"`
	ErrorMessage sql.NullString `db:"error_message" json:"-"`
}

// FileHistoryEntry is the JSON shape of a ledger row
type FileHistoryEntry struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"file_name"`
	ProcessedAt  time.Time `json:"processed_at"`
	Status       string    `json:"status"`
	RowCount     *int64    `json:"row_count"`
	ErrorMessage *string   `json:"error_message"`
}

// ToHistoryEntry flattens the nullable columns for JSON output
func (r FileProcessingRecord) ToHistoryEntry() FileHistoryEntry {
	e := FileHistoryEntry{
		ID:          r.ID,
		FileName:    r.FileName,
		ProcessedAt: r.ProcessedAt,
		Status:      r.Status,
	}
	if r.RowCount.Valid {
		v := r.RowCount.Int64
		e.RowCount = &v
	}
	if r.ErrorMessage.Valid {
		v := r.ErrorMessage.String
		e.ErrorMessage = &v
	}
	return e
}
