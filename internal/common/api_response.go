package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	msg := message
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		Code:         ErrorCode(err),
		ResponseTime: GetResponseTime(initTime),
	}

	writeJSON(w, code, response)
}

// RespondCoreError renders a CoreError with the status its code maps to.
// partial carries the degraded result some preconditions still produce.
func RespondCoreError(w http.ResponseWriter, initTime time.Time, err error, partial any) {
	var ce *CoreError
	if !errors.As(err, &ce) {
		logging.Error("Unhandled error", "error", err.Error())
		RespondError(w, initTime, nil, "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      ce.Message,
		Code:         ce.Code,
		ResponseTime: GetResponseTime(initTime),
		Data:         partial,
	}
	writeJSON(w, HTTPStatusForCode(ce.Code), response)
}

// HTTPStatusForCode maps error codes to HTTP status codes
func HTTPStatusForCode(code string) int {
	switch code {
	case constants.ErrCodeSectorNotFound, constants.ErrCodeFileNotFound:
		return http.StatusNotFound
	case constants.ErrCodeMissingParameters, constants.ErrCodeNoData, constants.ErrCodeInsufficientData:
		return http.StatusUnprocessableEntity
	case constants.ErrCodeInvalidFilter, constants.ErrCodeInvalidSector, constants.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case constants.ErrCodeIngestionInProgress:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
