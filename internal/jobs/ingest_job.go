package jobs

import (
	"context"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

type Ingester interface {
	Ingest(ctx context.Context, forceReload bool, file string) (*dtos.IngestSummary, error)
}

// IngestJob loads new files of the data directory. Already completed files
// are skipped by the ledger, so repeated runs are cheap.
type IngestJob struct {
	ingest Ingester
}

func NewIngestJob(ingest Ingester) *IngestJob {
	return &IngestJob{ingest: ingest}
}

func (j *IngestJob) Run(ctx context.Context) error {
	summary, err := j.ingest.Ingest(ctx, false, "")
	if err != nil {
		if common.IsCode(err, constants.ErrCodeIngestionInProgress) {
			logging.Info("Scheduled ingestion skipped, a run is in progress")
			return nil
		}
		logging.Error("Scheduled ingestion failed", "error", err.Error())
		return err
	}
	logging.Info("Scheduled ingestion finished",
		"status", summary.Status,
		"files_processed", summary.FilesProcessed,
		"files_skipped", summary.FilesSkipped,
		"files_failed", summary.FilesFailed,
		"rows_inserted", summary.RowsInserted,
	)
	return nil
}
