package dtos

// SaturationDay is the projected load of one forecast day
type SaturationDay struct {
	Date            string  `json:"date"`
	DailyCount      float64 `json:"daily_count"`
	PeakHourLoad    float64 `json:"peak_hour_load"`
	SaturationIndex float64 `json:"saturation_index"`
	Status          string  `json:"status"`
}

// SaturationResult combines capacity with projected demand
type SaturationResult struct {
	SectorID           string          `json:"sector_id"`
	SectorName         string          `json:"sector_name"`
	CHAdjusted         float64         `json:"ch_adjusted"`
	PeakHourFactor     float64         `json:"peak_hour_factor"`
	Days               []SaturationDay `json:"days"`
	MaxSaturationIndex float64         `json:"max_saturation_index"`
	OverallStatus      string          `json:"overall_status"`
	Warnings           []string        `json:"warnings,omitempty"`
}
