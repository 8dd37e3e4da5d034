package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"airspace-analytics/sectorcap/internal/models/entities"
)

// Pinger is satisfied by *sqlx.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(db Pinger, ingest Ingestor, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := entities.HealthCheckResponse{
			Database: entities.DatabaseStatus{Reachable: true},
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}
		if err := db.PingContext(r.Context()); err != nil {
			resp.Database = entities.DatabaseStatus{Error: err.Error()}
		}

		if ingest != nil {
			progress := ingest.Progress()
			resp.Ingestion = &entities.IngestionStatus{
				State:          progress.Status,
				CurrentFile:    progress.CurrentFile,
				ProcessedFiles: progress.ProcessedCount,
				TotalFiles:     progress.TotalFiles,
			}
		}

		resp.Status = "ok"
		if !resp.Healthy() {
			resp.Status = "down"
		}

		w.Header().Set("Content-Type", "application/json")
		if !resp.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
