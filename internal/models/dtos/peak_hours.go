package dtos

// HeatmapCell is one (day-of-week, hour) slot
type HeatmapCell struct {
	DayOfWeek int     `json:"dow"`
	DayName   string  `json:"day_name"`
	Hour      int     `json:"hour"`
	Value     float64 `json:"value"`
}

// PeakHoursResult is the average-tempo matrix. Matrix[d-1][h] holds ISO weekday d.
type PeakHoursResult struct {
	Matrix     [7][24]float64 `json:"matrix"`
	DayNames   []string       `json:"day_names"`
	DaysPerDow [7]int64       `json:"days_per_dow"`
	Peak       HeatmapCell    `json:"peak"`
	Mean       float64        `json:"mean"`
	Intensity  string         `json:"intensity"`
	// TotalFlights counts matched flights with a departure hour. Flights
	// without hora_salida are left out of the matrix and of this total.
	TotalFlights int64         `json:"total_flights"`
	TopSlots     []HeatmapCell `json:"top_slots"`
}
