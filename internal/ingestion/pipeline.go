package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/db"
	"airspace-analytics/sectorcap/internal/db/repositories"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
	"airspace-analytics/sectorcap/internal/models/entities"
	"airspace-analytics/sectorcap/internal/parsing"
)

var errNoDataRows = errors.New("file contains no data rows")

type Options struct {
	DataDir string
	Columns *ColumnMap
	Cache   *common.ResultCache
	Metrics *metrics.MetricsRegistry
}

// Pipeline loads source exports into the flights table
type Pipeline struct {
	db      *sqlx.DB
	ledger  *repositories.FileProcessingRepository
	flights *repositories.FlightRepository
	columns *ColumnMap
	dataDir string
	cache   *common.ResultCache
	metrics *metrics.MetricsRegistry

	progress *Progress
	group    singleflight.Group
	running  atomic.Bool
}

var (
	instance *Pipeline
	once     sync.Once
)

// Init creates the process-wide pipeline. Later calls return the first instance.
func Init(conn *sqlx.DB, opts Options) *Pipeline {
	once.Do(func() {
		instance = NewPipeline(conn, opts)
	})
	return instance
}

// Instance returns the pipeline created by Init, or nil
func Instance() *Pipeline {
	return instance
}

// NewPipeline builds a standalone pipeline; servers use Init
func NewPipeline(conn *sqlx.DB, opts Options) *Pipeline {
	columns := opts.Columns
	if columns == nil {
		columns = DefaultColumnMap()
	}
	return &Pipeline{
		db:       conn,
		ledger:   repositories.NewFileProcessingRepository(conn),
		flights:  repositories.NewFlightRepository(conn),
		columns:  columns,
		dataDir:  opts.DataDir,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		progress: newProgress(),
	}
}

// Running reports whether an ingestion run is in flight
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

func (p *Pipeline) Progress() dtos.IngestProgress {
	return p.progress.Snapshot()
}

// Ingest loads every supported file of the data directory, or only file when
// set. Concurrent calls share the run already in flight. The run is not tied
// to ctx cancellation: a started run always completes.
func (p *Pipeline) Ingest(ctx context.Context, forceReload bool, file string) (*dtos.IngestSummary, error) {
	ctx = context.WithoutCancel(ctx)
	v, err, shared := p.group.Do("ingest", func() (any, error) {
		return p.run(ctx, forceReload, file)
	})
	if shared {
		logging.Info("Ingest request joined the run in flight")
	}
	if err != nil {
		return nil, err
	}
	return v.(*dtos.IngestSummary), nil
}

func (p *Pipeline) run(ctx context.Context, forceReload bool, file string) (*dtos.IngestSummary, error) {
	p.running.Store(true)
	defer p.running.Store(false)

	start := time.Now()
	db.RepairFlightsSchema(ctx, p.db)

	paths, err := p.resolveFiles(file)
	if err != nil {
		p.progress.finish(constants.IngestStateFailed)
		return nil, err
	}

	summary := &dtos.IngestSummary{Files: []dtos.FileOutcome{}}
	p.progress.start(len(paths))
	logging.Info("Ingestion started", "files", len(paths), "force_reload", forceReload)

	touched := false
	for _, path := range paths {
		name := filepath.Base(path)
		p.progress.setFile(name)

		outcome := p.ingestFile(ctx, path, forceReload)
		summary.Files = append(summary.Files, outcome)
		switch constants.FileStatus(outcome.Status) {
		case constants.FileStatusCompleted:
			summary.FilesProcessed++
			summary.RowsInserted += outcome.RowsInserted
			touched = true
		case constants.FileStatusError:
			summary.FilesFailed++
			touched = touched || outcome.FileID > 0
		case constants.FileStatusSkipped:
			summary.FilesSkipped++
			touched = touched || outcome.FileID > 0
		}
		p.metrics.ObserveIngestFile(outcome.Status, outcome.RowsInserted)
		p.progress.fileDone()
	}

	switch {
	case len(paths) == 0:
		summary.Status = constants.IngestSummaryNoFiles
	case summary.FilesFailed > 0:
		summary.Status = constants.IngestSummaryWithErrors
	default:
		summary.Status = constants.IngestSummaryCompleted
	}

	if touched {
		p.cache.Invalidate()
	}

	elapsed := time.Since(start)
	summary.DurationSeconds = elapsed.Seconds()
	p.metrics.ObserveIngestRun(elapsed)
	p.progress.finish(constants.IngestStateCompleted)

	logging.Info("Ingestion finished",
		"status", summary.Status,
		"files_processed", summary.FilesProcessed,
		"files_skipped", summary.FilesSkipped,
		"files_failed", summary.FilesFailed,
		"rows_inserted", summary.RowsInserted,
		"duration_seconds", summary.DurationSeconds,
	)
	return summary, nil
}

// resolveFiles lists the files of one run in directory order
func (p *Pipeline) resolveFiles(file string) ([]string, error) {
	if file != "" {
		path := file
		if _, err := os.Stat(path); err != nil {
			path = filepath.Join(p.dataDir, filepath.Base(file))
		}
		if _, err := os.Stat(path); err != nil {
			return nil, common.NewCoreError(constants.ErrCodeFileNotFound,
				fmt.Sprintf("File %s not found", file), err)
		}
		if !IsSupportedFile(path) {
			return nil, common.NewCoreError(constants.ErrCodeUnsupportedFormat,
				fmt.Sprintf("File %s is not a supported export", file), nil)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(p.dataDir)
	if errors.Is(err, os.ErrNotExist) {
		logging.Warn("Data directory does not exist", "data_dir", p.dataDir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list data directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") || !IsSupportedFile(name) {
			continue
		}
		paths = append(paths, filepath.Join(p.dataDir, name))
	}
	return paths, nil
}

// ingestFile records the outcome of one file in the ledger; it never fails the batch
func (p *Pipeline) ingestFile(ctx context.Context, path string, forceReload bool) dtos.FileOutcome {
	name := filepath.Base(path)
	outcome := dtos.FileOutcome{FileName: name}

	if !forceReload {
		rec, err := p.ledger.GetByName(ctx, name)
		if err != nil {
			logging.Error("Ledger lookup failed", "file_name", name, "error", err.Error())
			outcome.Status = string(constants.FileStatusError)
			outcome.Error = err.Error()
			return outcome
		}
		if rec != nil && rec.Status == string(constants.FileStatusCompleted) {
			logging.Debug("File already loaded, skipping", "file_name", name, "file_id", rec.ID)
			outcome.Status = string(constants.FileStatusSkipped)
			return outcome
		}
	}

	id, err := p.ledger.Begin(ctx, name)
	if err != nil {
		logging.Error("Could not open ledger row", "file_name", name, "error", err.Error())
		outcome.Status = string(constants.FileStatusError)
		outcome.Error = err.Error()
		return outcome
	}
	outcome.FileID = id
	log := logging.WithFile(name, id)

	rows, err := p.loadFile(ctx, path, id)
	switch {
	case errors.Is(err, errNoDataRows):
		if serr := p.ledger.Skip(ctx, id, err.Error()); serr != nil {
			log.Errorw("Could not mark file skipped", "error", serr.Error())
		}
		log.Warnw("File skipped", "reason", err.Error())
		outcome.Status = string(constants.FileStatusSkipped)
		outcome.Error = err.Error()
	case err != nil:
		if ferr := p.ledger.Fail(ctx, id, err.Error()); ferr != nil {
			log.Errorw("Could not mark file failed", "error", ferr.Error())
		}
		log.Errorw("File ingestion failed", "error", err.Error())
		outcome.Status = string(constants.FileStatusError)
		outcome.Error = err.Error()
	default:
		log.Infow("File ingested", "rows", rows)
		outcome.Status = string(constants.FileStatusCompleted)
		outcome.RowsInserted = rows
	}
	return outcome
}

// loadFile streams one export into flights and completes its ledger row in
// the same transaction
func (p *Pipeline) loadFile(ctx context.Context, path string, fileID int64) (int64, error) {
	name := filepath.Base(path)

	reader, err := OpenTable(path)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	targets, dropped := p.columns.Resolve(reader.Header())
	logDropped(name, dropped)
	if len(dropped) == len(targets) {
		return 0, fmt.Errorf("no recognised columns in header")
	}

	load, err := p.flights.BeginLoad(ctx, fileID)
	if err != nil {
		return 0, err
	}
	defer load.Rollback()

	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read row %d: %w", load.Rows()+2, err)
		}
		if blankRecord(record) {
			continue
		}
		if err := load.Add(buildRow(targets, record)); err != nil {
			return 0, err
		}
	}

	if load.Rows() == 0 {
		return 0, errNoDataRows
	}
	return load.Commit()
}

var columnPositions = func() map[string]int {
	m := make(map[string]int, len(entities.FlightColumns))
	for i, c := range entities.FlightColumns {
		m[c.Name] = i
	}
	return m
}()

// buildRow projects a raw record onto the canonical schema. Columns absent
// from the file stay nil; file_id is filled by the load.
func buildRow(targets []string, record []string) entities.FlightRow {
	row := make(entities.FlightRow, len(entities.FlightColumns))
	for i, target := range targets {
		if target == "" || i >= len(record) {
			continue
		}
		pos := columnPositions[target]
		row[pos] = coerce(entities.FlightColumns[pos].Kind, record[i])
	}
	return row
}

func coerce(kind entities.ColumnKind, raw string) any {
	switch kind {
	case entities.KindInteger:
		if n, ok := parsing.ParseInt(raw); ok {
			return n
		}
	case entities.KindDate:
		if d, ok := parsing.ParseDate(raw); ok {
			return parsing.FormatDate(d)
		}
	case entities.KindTime:
		if t, ok := parsing.ParseTime(raw); ok {
			return t.String()
		}
	case entities.KindTimestamp:
		if ts, ok := parsing.ParseTimestamp(raw); ok {
			return ts.Format(parsing.TimestampLayout)
		}
	default:
		if s, ok := parsing.ParseString(raw); ok {
			return s
		}
	}
	return nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Reset drops and recreates flights and the ledger. Sectors and regions are kept.
func (p *Pipeline) Reset(ctx context.Context) error {
	if p.Running() {
		return common.NewCoreError(constants.ErrCodeIngestionInProgress, "", nil)
	}
	if err := db.ResetIngestionTables(ctx, p.db); err != nil {
		return err
	}
	p.progress.reset()
	p.cache.Invalidate()
	return nil
}

// History lists ledger rows, newest first
func (p *Pipeline) History(ctx context.Context, limit int) ([]entities.FileHistoryEntry, error) {
	records, err := p.ledger.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]entities.FileHistoryEntry, len(records))
	for i, r := range records {
		out[i] = r.ToHistoryEntry()
	}
	return out, nil
}

// DeleteFile removes a file's ledger row, its flights and the file itself
func (p *Pipeline) DeleteFile(ctx context.Context, name string) error {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return common.NewCoreError(constants.ErrCodeFileNotFound, "", nil)
	}
	if p.Running() {
		return common.NewCoreError(constants.ErrCodeIngestionInProgress, "", nil)
	}

	found, err := p.ledger.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("delete ledger row of %s: %w", name, err)
	}

	path := filepath.Join(p.dataDir, name)
	removed := false
	if err := os.Remove(path); err == nil {
		removed = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	if !found && !removed {
		return common.NewCoreError(constants.ErrCodeFileNotFound,
			fmt.Sprintf("File %s not found", name), nil)
	}

	p.cache.Invalidate()
	logging.Info("File deleted", "file_name", name, "ledger_row", found, "physical_file", removed)
	return nil
}
