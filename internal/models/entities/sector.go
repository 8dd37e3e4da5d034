package entities

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SectorDefinition is the airspace membership of a sector, stored as JSON
type SectorDefinition struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
	MinLevel     *int     `json:"min_level,omitempty"`
	MaxLevel     *int     `json:"max_level,omitempty"`
}

// Sector is a logical block of airspace with its control-task times in seconds
type Sector struct {
	ID                string           `db:"id" json:"id"`
	Name              string           `db:"name" json:"name"`
	DefinitionRaw     string           `db:"definition" json:"-"`
	Definition        SectorDefinition `db:"-" json:"definition"`
	TTransfer         float64          `db:"t_transfer" json:"t_transfer"`
	TCommAG           float64          `db:"t_comm_ag" json:"t_comm_ag"`
	TSeparation       float64          `db:"t_separation" json:"t_separation"`
	TCoordination     float64          `db:"t_coordination" json:"t_coordination"`
	AdjustmentFactorR float64          `db:"adjustment_factor_r" json:"adjustment_factor_r"`
	CapacityBaseline  sql.NullInt64    `db:"capacity_baseline" json:"-"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
}

// Hydrate decodes DefinitionRaw into Definition
func (s *Sector) Hydrate() error {
	if s.DefinitionRaw == "" {
		s.Definition = SectorDefinition{}
		return nil
	}
	if err := json.Unmarshal([]byte(s.DefinitionRaw), &s.Definition); err != nil {
		return fmt.Errorf("sector %s has a malformed definition: %w", s.ID, err)
	}
	return nil
}

// TFC is the total control-task time per flight in seconds
func (s *Sector) TFC() float64 {
	return s.TTransfer + s.TCommAG + s.TSeparation + s.TCoordination
}

// MarshalJSON exposes capacity_baseline as a plain nullable number
func (s Sector) MarshalJSON() ([]byte, error) {
	type alias Sector
	var baseline *int64
	if s.CapacityBaseline.Valid {
		v := s.CapacityBaseline.Int64
		baseline = &v
	}
	return json.Marshal(struct {
		alias
		CapacityBaseline *int64 `json:"capacity_baseline"`
	}{alias(s), baseline})
}

// SectorInput carries the fields of a create or update request.
// Nil pointers leave the stored value untouched on update.
type SectorInput struct {
	Name              *string           `json:"name"`
	Definition        *SectorDefinition `json:"definition"`
	TTransfer         *float64          `json:"t_transfer"`
	TCommAG           *float64          `json:"t_comm_ag"`
	TSeparation       *float64          `json:"t_separation"`
	TCoordination     *float64          `json:"t_coordination"`
	AdjustmentFactorR *float64          `json:"adjustment_factor_r"`
	CapacityBaseline  *int64            `json:"capacity_baseline"`
}
