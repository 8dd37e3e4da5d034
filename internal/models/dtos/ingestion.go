package dtos

import "time"

// IngestRequest selects what an ingestion run loads
type IngestRequest struct {
	ForceReload bool   `json:"force_reload"`
	File        string `json:"file,omitempty"`
	Async       bool   `json:"async,omitempty"`
}

// FileOutcome is the result of one file within a run
type FileOutcome struct {
	FileName     string `json:"file_name"`
	FileID       int64  `json:"file_id,omitempty"`
	Status       string `json:"status"`
	RowsInserted int64  `json:"rows_inserted"`
	Error        string `json:"error,omitempty"`
}

// IngestSummary is returned by an ingestion run
type IngestSummary struct {
	Status          string        `json:"status"`
	FilesProcessed  int           `json:"files_processed"`
	FilesSkipped    int           `json:"files_skipped"`
	FilesFailed     int           `json:"files_failed"`
	RowsInserted    int64         `json:"rows_inserted"`
	DurationSeconds float64       `json:"duration_seconds"`
	Files           []FileOutcome `json:"files"`
}

type IngestProgress struct {
	CurrentFile    string     `json:"current_file"`
	Status         string     `json:"status"`
	Progress       float64    `json:"progress"`
	ProcessedCount int64      `json:"processed_count"`
	TotalFiles     int64      `json:"total_files"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
}
