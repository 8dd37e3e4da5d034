package dtos

import "airspace-analytics/sectorcap/internal/models/entities"

// TFCBreakdown lists the control-task components in seconds
type TFCBreakdown struct {
	TTransfer     float64 `json:"t_transfer"`
	TCommAG       float64 `json:"t_comm_ag"`
	TSeparation   float64 `json:"t_separation"`
	TCoordination float64 `json:"t_coordination"`
}

// CapacityResult carries every intermediate quantity of the capacity model
type CapacityResult struct {
	SectorID            string            `json:"sector_id"`
	SectorName          string            `json:"sector_name"`
	TFC                 float64           `json:"tfc"`
	Breakdown           TFCBreakdown      `json:"tfc_breakdown"`
	MeanDurationMinutes float64           `json:"mean_duration_minutes"`
	TPS                 float64           `json:"tps"`
	SCV                 float64           `json:"scv"`
	CH                  float64           `json:"ch"`
	R                   float64           `json:"r"`
	CHAdjusted          float64           `json:"ch_adjusted"`
	FlightCount         int64             `json:"flight_count"`
	PlanningBuffer      float64           `json:"planning_buffer"`
	CapacityBaseline    *int64            `json:"capacity_baseline,omitempty"`
	Formula             string            `json:"formula"`
	OriginRegions       []entities.Region `json:"origin_regions,omitempty"`
	DestinationRegions  []entities.Region `json:"destination_regions,omitempty"`
}
