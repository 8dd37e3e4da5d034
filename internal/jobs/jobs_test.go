package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/config"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop())
	m.Run()
}

type mockHealth struct{ calls int }

func (m *mockHealth) Check(context.Context) *dtos.ModelHealthReport {
	m.calls++
	return &dtos.ModelHealthReport{Verdict: "Warnings Detected", Models: []dtos.ModelHealthEntry{{Model: "daily_demand", Status: "Warning"}}}
}

type mockIngester struct {
	ingestFunc func(ctx context.Context, forceReload bool, file string) (*dtos.IngestSummary, error)
}

func (m *mockIngester) Ingest(ctx context.Context, forceReload bool, file string) (*dtos.IngestSummary, error) {
	return m.ingestFunc(ctx, forceReload, file)
}

func TestModelHealthJob_Run(t *testing.T) {
	health := &mockHealth{}
	report := NewModelHealthJob(health).Run(context.Background())

	assert.Equal(t, 1, health.calls)
	assert.Equal(t, "Warnings Detected", report.Verdict)
}

func TestIngestJob_Run(t *testing.T) {
	var force bool
	var file string
	ingest := &mockIngester{
		ingestFunc: func(_ context.Context, forceReload bool, f string) (*dtos.IngestSummary, error) {
			force, file = forceReload, f
			return &dtos.IngestSummary{Status: constants.IngestSummaryCompleted}, nil
		},
	}
	require.NoError(t, NewIngestJob(ingest).Run(context.Background()))
	assert.False(t, force)
	assert.Empty(t, file)
}

func TestIngestJob_RunInProgressIsNotAnError(t *testing.T) {
	ingest := &mockIngester{
		ingestFunc: func(context.Context, bool, string) (*dtos.IngestSummary, error) {
			return nil, common.NewCoreError(constants.ErrCodeIngestionInProgress, "", nil)
		},
	}
	assert.NoError(t, NewIngestJob(ingest).Run(context.Background()))

	ingest.ingestFunc = func(context.Context, bool, string) (*dtos.IngestSummary, error) {
		return nil, errors.New("disk full")
	}
	assert.EqualError(t, NewIngestJob(ingest).Run(context.Background()), "disk full")
}

func TestInitializeJobs(t *testing.T) {
	cfg := &config.Config{HealthCheckCron: "@daily", IngestCron: "@every 1h"}
	c, err := InitializeJobs(context.Background(), cfg, &mockHealth{}, &mockIngester{})
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 2)

	cfg = &config.Config{HealthCheckCron: "@daily"}
	c2, err := InitializeJobs(context.Background(), cfg, &mockHealth{}, nil)
	require.NoError(t, err)
	defer c2.Stop()
	assert.Len(t, c2.Entries(), 1)

	_, err = InitializeJobs(context.Background(), &config.Config{HealthCheckCron: "not a schedule"}, &mockHealth{}, nil)
	assert.Error(t, err)
}
