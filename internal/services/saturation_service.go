package services

import (
	"context"
	"fmt"
	"time"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

const (
	SaturationNormal   = "Normal"
	SaturationWarning  = "Warning"
	SaturationCritical = "Critical"
)

// SaturationService compares projected peak-hour demand with sector capacity
type SaturationService struct {
	sectors        SectorStore
	capacity       CapacityComputer
	demand         DemandForecaster
	cache          *common.ResultCache
	metrics        *metrics.MetricsRegistry
	peakHourFactor float64
}

// NewSaturationService takes the share of daily traffic assumed to fly in the
// peak hour; a non-positive factor selects the 10% default.
func NewSaturationService(
	sectors SectorStore,
	capacity CapacityComputer,
	demand DemandForecaster,
	cache *common.ResultCache,
	m *metrics.MetricsRegistry,
	peakHourFactor float64,
) *SaturationService {
	if peakHourFactor <= 0 {
		peakHourFactor = constants.DefaultPeakHourFactor
	}
	return &SaturationService{
		sectors:        sectors,
		capacity:       capacity,
		demand:         demand,
		cache:          cache,
		metrics:        m,
		peakHourFactor: peakHourFactor,
	}
}

type saturationArgs struct {
	SectorID  string             `json:"sector_id"`
	DaysAhead int                `json:"days_ahead"`
	Factor    float64            `json:"factor"`
	Filter    filters.FilterSpec `json:"filter"`
}

// Assess projects the saturation index of the sector for each forecast day.
// Missing control-task times or an empty flight sample degrade the capacity
// figure and add a warning instead of failing.
func (s *SaturationService) Assess(ctx context.Context, sectorID string, daysAhead int, spec filters.FilterSpec) (result *dtos.SaturationResult, err error) {
	start := time.Now()
	defer func() {
		code := common.ErrorCode(err)
		if err != nil && code == "" {
			code = "INTERNAL"
		}
		s.metrics.ObserveAnalytics("saturation", time.Since(start), code)
	}()

	sector, err := s.sectors.GetByID(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	if sector == nil {
		return nil, common.NewCoreError(constants.ErrCodeSectorNotFound, "", nil)
	}

	spec = spec.WithSector(sector.ID)
	args := saturationArgs{SectorID: sector.ID, DaysAhead: daysAhead, Factor: s.peakHourFactor, Filter: spec}
	return common.Cached(s.cache, constants.CachePrefixSaturation, args, func() (*dtos.SaturationResult, error) {
		return s.assess(ctx, sector.ID, daysAhead, spec)
	})
}

func (s *SaturationService) assess(ctx context.Context, sectorID string, daysAhead int, spec filters.FilterSpec) (*dtos.SaturationResult, error) {
	result := &dtos.SaturationResult{
		SectorID:       sectorID,
		PeakHourFactor: s.peakHourFactor,
		OverallStatus:  SaturationNormal,
		Days:           []dtos.SaturationDay{},
	}

	chAdjusted, name, warnings, err := s.capacityFor(ctx, sectorID, spec)
	if err != nil {
		return nil, err
	}
	result.CHAdjusted = chAdjusted
	result.SectorName = name
	result.Warnings = warnings

	forecast, err := s.demand.Forecast(ctx, daysAhead, spec)
	if err != nil {
		return nil, err
	}

	for _, p := range forecast.Forecast {
		load := p.Value * s.peakHourFactor
		index := 100 * load / chAdjusted
		day := dtos.SaturationDay{
			Date:            p.Date,
			DailyCount:      p.Value,
			PeakHourLoad:    load,
			SaturationIndex: index,
			Status:          saturationStatus(index),
		}
		result.Days = append(result.Days, day)
		if index > result.MaxSaturationIndex {
			result.MaxSaturationIndex = index
		}
	}
	result.OverallStatus = saturationStatus(result.MaxSaturationIndex)
	return result, nil
}

// capacityFor returns CH_adjusted for the sector, substituting fallbacks for
// the MISSING_PARAMETERS and NO_DATA preconditions
func (s *SaturationService) capacityFor(ctx context.Context, sectorID string, spec filters.FilterSpec) (float64, string, []string, error) {
	capacity, err := s.capacity.Compute(ctx, sectorID, spec)
	switch {
	case err == nil:
		return capacity.CHAdjusted, capacity.SectorName, nil, nil

	case common.IsCode(err, constants.ErrCodeMissingParameters) && capacity != nil:
		ch := 3600 / (1 * constants.PlanningBuffer)
		logging.Warn("Sector has no control-task times, assuming TFC=1s", "sector_id", sectorID)
		return ch * capacity.R, capacity.SectorName, []string{
			"Sector has no control-task times configured; TFC = 1 s was assumed, so capacity is overstated and saturation understated",
		}, nil

	case common.IsCode(err, constants.ErrCodeNoData):
		sector, lookupErr := s.sectors.GetByID(ctx, sectorID)
		if lookupErr != nil {
			return 0, "", nil, lookupErr
		}
		if sector == nil {
			return 0, "", nil, common.NewCoreError(constants.ErrCodeSectorNotFound, "", nil)
		}
		r := sector.AdjustmentFactorR
		if r <= 0 {
			r = constants.DefaultAdjustmentFactor
		}
		ch := 3600 / (sector.TFC() * constants.PlanningBuffer)
		return ch * r, sector.Name, []string{
			fmt.Sprintf("No flights matched the sector for a transit-time sample; CH = 3600 / (TFC × %.1f) was used", constants.PlanningBuffer),
		}, nil
	}
	return 0, "", nil, err
}

func saturationStatus(index float64) string {
	switch {
	case index > 100:
		return SaturationCritical
	case index > 80:
		return SaturationWarning
	}
	return SaturationNormal
}
