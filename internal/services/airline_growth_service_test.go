package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/db/repositories"
	"airspace-analytics/sectorcap/internal/filters"
)

func growthFixture(yearlySeen *bool) *mockFlightAnalytics {
	return &mockFlightAnalytics{
		topAirlinesFunc: func(_ context.Context, _ filters.Where, limit int) ([]repositories.AirlineCount, error) {
			if limit != constants.TopAirlines {
				panic("unexpected limit")
			}
			return []repositories.AirlineCount{{Airline: "IBE", Count: 300}, {Airline: "VLG", Count: 90}, {Airline: "AEA", Count: 110}}, nil
		},
		durationStatsFunc: func(context.Context, filters.Where) (*repositories.DurationStats, error) {
			return &repositories.DurationStats{Count: 500, MeanDuration: 55}, nil
		},
		airlinePeriodCountsFunc: func(_ context.Context, _ filters.Where, airlines []string, yearly bool) ([]repositories.AirlinePeriodCount, error) {
			if yearlySeen != nil {
				*yearlySeen = yearly
			}
			return []repositories.AirlinePeriodCount{
				{Airline: "IBE", Period: "2024-01", Count: 50},
				{Airline: "IBE", Period: "2024-02", Count: 100},
				{Airline: "IBE", Period: "2024-03", Count: 150},
				{Airline: "VLG", Period: "2024-01", Count: 60},
				{Airline: "VLG", Period: "2024-03", Count: 30},
				{Airline: "AEA", Period: "2024-01", Count: 40},
				{Airline: "AEA", Period: "2024-02", Count: 40},
				{Airline: "AEA", Period: "2024-03", Count: 40},
			}, nil
		},
	}
}

func TestAirlineGrowthService_Analyze(t *testing.T) {
	svc := NewAirlineGrowthService(storeWith(), growthFixture(nil), nil, nil)

	res, err := svc.Analyze(context.Background(), 12, filters.FilterSpec{})
	require.NoError(t, err)

	assert.Equal(t, PeriodMonthly, res.Period)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, res.Periods)
	require.Len(t, res.Airlines, 3)

	ibe := res.Airlines[0]
	assert.Equal(t, "IBE", ibe.Airline)
	assert.InDelta(t, 50.0, ibe.Slope, 1e-9)
	assert.InDelta(t, 1.0, ibe.R2, 1e-9)
	assert.Equal(t, 150.0, ibe.CurrentVolume)
	assert.InDelta(t, 200.0, ibe.NextForecast, 1e-9)
	assert.Equal(t, GrowthPositive, ibe.Trend)
	assert.InDelta(t, 0.6, ibe.MarketShare, 1e-9)

	vlg := res.Airlines[1]
	// the missing February counts as zero
	assert.Equal(t, []float64{60, 0, 30}, []float64{vlg.Series[0].Value, vlg.Series[1].Value, vlg.Series[2].Value})
	assert.InDelta(t, -15.0, vlg.Slope, 1e-9)
	assert.Equal(t, GrowthNegative, vlg.Trend)

	assert.Equal(t, GrowthStable, res.Airlines[2].Trend)
	assert.Equal(t, 1, res.PositiveCount)
	assert.Equal(t, 1, res.NegativeCount)
	assert.Equal(t, 1, res.StableCount)
	assert.Equal(t, MarketStability, res.MarketState)
}

func TestAirlineGrowthService_LimitsToRecentMonths(t *testing.T) {
	res, err := NewAirlineGrowthService(storeWith(), growthFixture(nil), nil, nil).
		Analyze(context.Background(), 2, filters.FilterSpec{})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-02", "2024-03"}, res.Periods)
	assert.InDelta(t, 50.0, res.Airlines[0].Slope, 1e-9)
	assert.Equal(t, GrowthPositive, res.Airlines[1].Trend)
	assert.Equal(t, MarketExpansion, res.MarketState)
}

func TestAirlineGrowthService_SeasonalUsesYears(t *testing.T) {
	var yearly bool
	_, err := NewAirlineGrowthService(storeWith(), growthFixture(&yearly), nil, nil).
		Analyze(context.Background(), 12, filters.FilterSpec{StartDate: "2023-06-01", EndDate: "2023-08-31"})
	require.NoError(t, err)
	assert.True(t, yearly)
}

func TestAirlineGrowthService_NoAirlines(t *testing.T) {
	flights := &mockFlightAnalytics{
		airlinePeriodCountsFunc: func(context.Context, filters.Where, []string, bool) ([]repositories.AirlinePeriodCount, error) {
			t.Fatal("period counts must not be queried without airlines")
			return nil, nil
		},
	}
	res, err := NewAirlineGrowthService(storeWith(), flights, nil, nil).Analyze(context.Background(), 0, filters.FilterSpec{})
	require.NoError(t, err)

	assert.Empty(t, res.Airlines)
	assert.Equal(t, MarketStability, res.MarketState)
	assert.NotEmpty(t, res.Message)
}

func TestContiguousPeriods(t *testing.T) {
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01"}, contiguousPeriods([]string{"2024-01", "2023-11"}, false))
	assert.Equal(t, []string{"2019", "2020", "2021"}, contiguousPeriods([]string{"2021", "2019", "2021"}, true))
	assert.Empty(t, contiguousPeriods(nil, false))
}

func TestGrowthDirection(t *testing.T) {
	assert.Equal(t, GrowthPositive, growthDirection(0.51))
	assert.Equal(t, GrowthStable, growthDirection(0.5))
	assert.Equal(t, GrowthStable, growthDirection(-0.5))
	assert.Equal(t, GrowthNegative, growthDirection(-0.51))
}
