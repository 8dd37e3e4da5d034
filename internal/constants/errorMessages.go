package constants

// Error codes surfaced by the analytics core
const (
	ErrCodeSectorNotFound      = "SECTOR_NOT_FOUND"
	ErrCodeMissingParameters   = "MISSING_PARAMETERS"
	ErrCodeNoData              = "NO_DATA"
	ErrCodeInsufficientData    = "INSUFFICIENT_DATA"
	ErrCodeFileNotFound        = "FILE_NOT_FOUND"
	ErrCodeInvalidFilter       = "INVALID_FILTER"
	ErrCodeInvalidSector       = "INVALID_SECTOR"
	ErrCodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	ErrCodeIngestionInProgress = "INGESTION_IN_PROGRESS"
)

// Human-readable messages corresponding to error codes
var ErrorMessages = map[string]string{
	ErrCodeSectorNotFound:      "The requested sector does not exist",
	ErrCodeMissingParameters:   "The sector has no control-task times configured; set t_transfer, t_comm_ag, t_separation and t_coordination",
	ErrCodeNoData:              "No flights match the sector and filter",
	ErrCodeInsufficientData:    "Not enough history to fit the model",
	ErrCodeFileNotFound:        "The file is not known to the ingestion ledger or the data directory",
	ErrCodeInvalidFilter:       "The filter contains an invalid value",
	ErrCodeInvalidSector:       "The sector definition is invalid",
	ErrCodeUnsupportedFormat:   "The file format is not supported",
	ErrCodeIngestionInProgress: "An ingestion run is already in progress",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
