package services

import (
	"context"
	"sort"
	"time"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

const (
	IntensityBottleneck = "Very High (Bottleneck)"
	IntensityHigh       = "High"
	IntensityModerate   = "Moderate"

	topSlotCount = 5
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// PeakHoursService builds the average departures per weekday and hour
type PeakHoursService struct {
	analytics
}

func NewPeakHoursService(sectors SectorStore, flights FlightAnalytics, cache *common.ResultCache, m *metrics.MetricsRegistry) *PeakHoursService {
	return &PeakHoursService{analytics: newAnalytics(flights, sectors, cache, m)}
}

// Heatmap returns value[d][h] = departures in slot (d, h) / distinct dates
// observed for weekday d. Flights without a departure time are not counted.
func (s *PeakHoursService) Heatmap(ctx context.Context, spec filters.FilterSpec) (result *dtos.PeakHoursResult, err error) {
	start := time.Now()
	defer func() { s.observe("peak_hours", start, err) }()

	return common.Cached(s.cache, constants.CachePrefixPeakHours, spec, func() (*dtos.PeakHoursResult, error) {
		return s.heatmap(ctx, spec)
	})
}

func (s *PeakHoursService) heatmap(ctx context.Context, spec filters.FilterSpec) (*dtos.PeakHoursResult, error) {
	where, err := s.builder.Build(ctx, spec)
	if err != nil {
		return nil, err
	}
	hourly, err := s.flights.HourlyCounts(ctx, where)
	if err != nil {
		return nil, err
	}
	days, err := s.flights.DaysPerWeekday(ctx, where)
	if err != nil {
		return nil, err
	}

	result := &dtos.PeakHoursResult{DayNames: dayNames}
	for _, d := range days {
		if d.DayOfWeek >= 1 && d.DayOfWeek <= 7 {
			result.DaysPerDow[d.DayOfWeek-1] = d.Days
		}
	}
	for _, c := range hourly {
		if c.DayOfWeek < 1 || c.DayOfWeek > 7 || c.Hour < 0 || c.Hour > 23 {
			continue
		}
		result.TotalFlights += c.Count
		if n := result.DaysPerDow[c.DayOfWeek-1]; n > 0 {
			result.Matrix[c.DayOfWeek-1][c.Hour] = float64(c.Count) / float64(n)
		}
	}

	cells := make([]dtos.HeatmapCell, 0, 7*24)
	var total float64
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			v := result.Matrix[d][h]
			total += v
			cells = append(cells, dtos.HeatmapCell{DayOfWeek: d + 1, DayName: dayNames[d], Hour: h, Value: v})
		}
	}
	result.Mean = total / float64(len(cells))

	// stable sort keeps weekday/hour order among equal values
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].Value > cells[j].Value })
	result.Peak = cells[0]
	result.TopSlots = cells[:topSlotCount]
	result.Intensity = intensityLabel(result.Peak.Value, result.Mean)
	return result, nil
}

func intensityLabel(peak, mean float64) string {
	if mean <= 0 {
		return IntensityModerate
	}
	switch ratio := peak / mean; {
	case ratio > 2:
		return IntensityBottleneck
	case ratio > 1.5:
		return IntensityHigh
	}
	return IntensityModerate
}
