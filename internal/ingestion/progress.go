package ingestion

import (
	"sync/atomic"
	"time"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

// Progress holds the counters of the current or last ingestion run. The
// pipeline is the only writer; readers may observe slightly stale values.
type Progress struct {
	currentFile atomic.Value
	status      atomic.Value
	processed   atomic.Int64
	total       atomic.Int64
	startedAt   atomic.Int64
}

func newProgress() *Progress {
	p := &Progress{}
	p.currentFile.Store("")
	p.status.Store(constants.IngestStateIdle)
	return p
}

func (p *Progress) start(total int) {
	p.processed.Store(0)
	p.total.Store(int64(total))
	p.currentFile.Store("")
	p.startedAt.Store(time.Now().UTC().UnixNano())
	p.status.Store(constants.IngestStateRunning)
}

func (p *Progress) setFile(name string) {
	p.currentFile.Store(name)
}

func (p *Progress) fileDone() {
	p.processed.Add(1)
}

func (p *Progress) finish(state string) {
	p.currentFile.Store("")
	p.status.Store(state)
}

func (p *Progress) reset() {
	p.processed.Store(0)
	p.total.Store(0)
	p.startedAt.Store(0)
	p.finish(constants.IngestStateIdle)
}

// Snapshot returns the counters as a progress report
func (p *Progress) Snapshot() dtos.IngestProgress {
	out := dtos.IngestProgress{
		CurrentFile:    p.currentFile.Load().(string),
		Status:         p.status.Load().(string),
		ProcessedCount: p.processed.Load(),
		TotalFiles:     p.total.Load(),
	}

	switch {
	case out.TotalFiles > 0:
		out.Progress = float64(out.ProcessedCount) / float64(out.TotalFiles)
	case out.Status == constants.IngestStateCompleted:
		out.Progress = 1
	}

	if ns := p.startedAt.Load(); ns > 0 {
		t := time.Unix(0, ns).UTC()
		out.StartedAt = &t
	}
	return out
}
