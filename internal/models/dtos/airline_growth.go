package dtos

// AirlineTrend is the fitted trend of one operator
type AirlineTrend struct {
	Airline       string       `json:"airline"`
	TotalFlights  int64        `json:"total_flights"`
	MarketShare   float64      `json:"market_share"`
	Slope         float64      `json:"slope"`
	CurrentVolume float64      `json:"current_volume"`
	NextForecast  float64      `json:"next_forecast"`
	Trend         string       `json:"trend"`
	R2            float64      `json:"r2"`
	Series        []DailyPoint `json:"series"`
}

type AirlineGrowthResult struct {
	Period        string         `json:"period"`
	Periods       []string       `json:"periods"`
	Airlines      []AirlineTrend `json:"airlines"`
	MarketState   string         `json:"market_state"`
	PositiveCount int            `json:"positive_count"`
	NegativeCount int            `json:"negative_count"`
	StableCount   int            `json:"stable_count"`
	Message       string         `json:"message,omitempty"`
}
