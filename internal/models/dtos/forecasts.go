package dtos

// DailyPoint is an observed count on one day
type DailyPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ForecastPoint is a predicted value with its 95% band
type ForecastPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type AccuracyMetrics struct {
	R2           float64  `json:"r2"`
	MAE          float64  `json:"mae"`
	RMSE         float64  `json:"rmse"`
	ResidualStd  float64  `json:"residual_std,omitempty"`
	TrainingDays int      `json:"training_days"`
	Model        string   `json:"model"`
	Features     []string `json:"features,omitempty"`
}

// DemandForecast is the result of the daily-demand forecaster
type DemandForecast struct {
	Mode            string          `json:"mode"`
	History         []DailyPoint    `json:"history"`
	Forecast        []ForecastPoint `json:"forecast"`
	AccuracyMetrics AccuracyMetrics `json:"accuracy_metrics"`
	Trend           string          `json:"trend"`
	PeakDay         *ForecastPoint  `json:"peak_day,omitempty"`
	TotalProjected  float64         `json:"total_projected"`
	Summary         string          `json:"summary"`

	// seasonal mode only
	HistoricalSeasons map[string][]DailyPoint `json:"historical_seasons,omitempty"`
	SeasonTotals      map[string]float64      `json:"season_totals,omitempty"`
	GrowthFactor      float64                 `json:"growth_factor,omitempty"`
	TargetYear        int                     `json:"target_year,omitempty"`
}

// SeasonalTrendForecast is the result of the harmonic long-horizon forecaster
type SeasonalTrendForecast struct {
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	Forecast        []ForecastPoint    `json:"forecast"`
	AccuracyMetrics AccuracyMetrics    `json:"accuracy_metrics"`
	PeakMonth       string             `json:"peak_month"`
	MonthlyMeans    map[string]float64 `json:"monthly_means"`
	TotalProjected  float64            `json:"total_projected"`
	PeakDay         *ForecastPoint     `json:"peak_day,omitempty"`
	HistoryDays     int                `json:"history_days"`
}
