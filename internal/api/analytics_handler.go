package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"airspace-analytics/sectorcap/internal/common"
)

const defaultDaysAhead = 7

// ComputeCapacity handles POST /api/v1/analytics/capacity/{sector_id}.
// A sector without control-task times answers 422 with the partial result.
func (h *Handlers) ComputeCapacity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		spec, err := decodeFilter(r)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}

		result, err := h.deps.Services.Capacity.Compute(r.Context(), chi.URLParam(r, "sector_id"), spec)
		if err != nil {
			if result != nil {
				common.RespondCoreError(w, initTime, err, result)
				return
			}
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Sector capacity", result)
	}
}

// ForecastDemand handles POST /api/v1/analytics/demand?days_ahead=
func (h *Handlers) ForecastDemand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		daysAhead, err := queryInt(r, "days_ahead", defaultDaysAhead)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		spec, err := decodeFilter(r)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}

		forecast, err := h.deps.Services.Demand.Forecast(r.Context(), daysAhead, spec)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Daily demand forecast", forecast)
	}
}

// ForecastSeasonalTrend handles POST /api/v1/analytics/seasonal-trend?start=&end=
func (h *Handlers) ForecastSeasonalTrend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		spec, err := decodeFilter(r)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}

		q := r.URL.Query()
		forecast, err := h.deps.Services.Seasonal.Forecast(r.Context(), q.Get("start"), q.Get("end"), spec)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Seasonal trend forecast", forecast)
	}
}

func (h *Handlers) PeakHours() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		spec, err := decodeFilter(r)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}

		heatmap, err := h.deps.Services.PeakHours.Heatmap(r.Context(), spec)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Peak hours heatmap", heatmap)
	}
}

// AirlineGrowth handles POST /api/v1/analytics/airline-growth?months=
func (h *Handlers) AirlineGrowth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		months, err := queryInt(r, "months", 0)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		spec, err := decodeFilter(r)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}

		result, err := h.deps.Services.Airlines.Analyze(r.Context(), months, spec)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Airline growth", result)
	}
}

// SectorSaturation handles POST /api/v1/analytics/saturation/{sector_id}?days_ahead=
func (h *Handlers) SectorSaturation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		daysAhead, err := queryInt(r, "days_ahead", defaultDaysAhead)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		spec, err := decodeFilter(r)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}

		result, err := h.deps.Services.Saturation.Assess(r.Context(), chi.URLParam(r, "sector_id"), daysAhead, spec)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Sector saturation", result)
	}
}

// ModelHealth handles GET /api/v1/analytics/model-health. It returns the last
// scheduled report, running a check when none exists yet or refresh is set.
func (h *Handlers) ModelHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		svc := h.deps.Services.Health
		report := svc.Latest()
		if report == nil || queryBool(r, "refresh") {
			report = svc.Check(r.Context())
		}
		common.RespondSuccess(w, initTime, report.Verdict, report)
	}
}
