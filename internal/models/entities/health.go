package entities

import "time"

// DatabaseStatus is the result of pinging the DuckDB pool
type DatabaseStatus struct {
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// IngestionStatus mirrors the pipeline's progress at the time of the check.
// A running ingestion does not make the service unhealthy.
type IngestionStatus struct {
	State          string `json:"state"`
	CurrentFile    string `json:"current_file,omitempty"`
	ProcessedFiles int64  `json:"processed_files"`
	TotalFiles     int64  `json:"total_files"`
}

type HealthCheckResponse struct {
	Status    string           `json:"status"`
	Database  DatabaseStatus   `json:"database"`
	Ingestion *IngestionStatus `json:"ingestion,omitempty"`
	UpSince   time.Time        `json:"up_since"`
	Uptime    string           `json:"uptime"`
}

// Healthy reports whether the process can serve analytics
func (h HealthCheckResponse) Healthy() bool {
	return h.Database.Reachable
}
