package dtos

import "time"

// ModelHealthEntry is the reliability of one forecaster
type ModelHealthEntry struct {
	Model   string   `json:"model"`
	Status  string   `json:"status"`
	Metric  string   `json:"metric,omitempty"`
	Value   *float64 `json:"value,omitempty"`
	Message string   `json:"message,omitempty"`
}

type ModelHealthReport struct {
	Verdict   string             `json:"verdict"`
	Models    []ModelHealthEntry `json:"models"`
	CheckedAt time.Time          `json:"checked_at"`
}
