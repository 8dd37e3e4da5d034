package constants

type (
	APIStatus   string
	FileStatus  string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"
)

// Ledger states of a file_processing_control row
const (
	FileStatusProcessing FileStatus = "PROCESSING"
	FileStatusCompleted  FileStatus = "COMPLETED"
	FileStatusSkipped    FileStatus = "SKIPPED"
	FileStatusError      FileStatus = "ERROR"
)

// Ingestion run states reported by progress()
const (
	IngestStateIdle      = "idle"
	IngestStateRunning   = "running"
	IngestStateCompleted = "completed"
	IngestStateFailed    = "failed"
)

// Ingest summary status values
const (
	IngestSummaryCompleted  = "completed"
	IngestSummaryWithErrors = "completed_with_errors"
	IngestSummaryNoFiles    = "no_files"
)

const (
	CachePrefixCapacity      CachePrefix = "CAPACITY_"
	CachePrefixDemand        CachePrefix = "DEMAND_"
	CachePrefixSeasonal      CachePrefix = "SEASONAL_"
	CachePrefixPeakHours     CachePrefix = "PEAK_"
	CachePrefixAirlineGrowth CachePrefix = "AIRLINE_"
	CachePrefixSaturation    CachePrefix = "SATURATION_"
)

// Planning constants of the capacity model
const (
	PlanningBuffer          = 1.3
	DefaultAdjustmentFactor = 0.8
	DefaultPeakHourFactor   = 0.10
	CapacityFormula         = "SCV = TPS / (TFC × 1.3); CH = 3600 × SCV / TPS; CH_adjusted = CH × R"
)

// Thresholds of the forecasters
const (
	MinDemandHistoryDays   = 14
	MinSeasonalHistoryDays = 30
	DemandHistoryWindow    = 90
	TopAirlines            = 10
)
