package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/models/entities"
)

// SectorRepository stores sector definitions; the definition is kept as a JSON blob
type SectorRepository struct {
	db *sqlx.DB
}

func NewSectorRepository(db *sqlx.DB) *SectorRepository {
	return &SectorRepository{db: db}
}

// Create inserts a sector under a fresh UUID. Unset times default to zero and
// an unset adjustment factor to 0.8.
func (r *SectorRepository) Create(ctx context.Context, in entities.SectorInput) (*entities.Sector, error) {
	now := time.Now().UTC()
	s := &entities.Sector{
		ID:                uuid.NewString(),
		AdjustmentFactorR: constants.DefaultAdjustmentFactor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Definition != nil {
		s.Definition = *in.Definition
	}
	setFloat(&s.TTransfer, in.TTransfer)
	setFloat(&s.TCommAG, in.TCommAG)
	setFloat(&s.TSeparation, in.TSeparation)
	setFloat(&s.TCoordination, in.TCoordination)
	setFloat(&s.AdjustmentFactorR, in.AdjustmentFactorR)
	if in.CapacityBaseline != nil {
		s.CapacityBaseline = sql.NullInt64{Int64: *in.CapacityBaseline, Valid: true}
	}

	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, err
	}
	s.DefinitionRaw = string(raw)

	_, err = r.db.ExecContext(ctx, constants.InsertSector,
		s.ID, s.Name, s.DefinitionRaw,
		s.TTransfer, s.TCommAG, s.TSeparation, s.TCoordination,
		s.AdjustmentFactorR, s.CapacityBaseline, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sector: %w", err)
	}
	return s, nil
}

// GetByID returns the sector, or nil when it does not exist
func (r *SectorRepository) GetByID(ctx context.Context, id string) (*entities.Sector, error) {
	var s entities.Sector
	err := r.db.GetContext(ctx, &s, constants.GetSectorByID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.Hydrate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SectorRepository) List(ctx context.Context) ([]entities.Sector, error) {
	sectors := []entities.Sector{}
	if err := r.db.SelectContext(ctx, &sectors, constants.ListSectors); err != nil {
		return nil, err
	}
	for i := range sectors {
		if err := sectors[i].Hydrate(); err != nil {
			return nil, err
		}
	}
	return sectors, nil
}

// Update applies the non-nil fields of in and returns the stored sector,
// or nil when the sector does not exist.
func (r *SectorRepository) Update(ctx context.Context, id string, in entities.SectorInput) (*entities.Sector, error) {
	var definition *string
	if in.Definition != nil {
		raw, err := json.Marshal(in.Definition)
		if err != nil {
			return nil, err
		}
		s := string(raw)
		definition = &s
	}

	res, err := r.db.ExecContext(ctx, constants.UpdateSector,
		in.Name, definition,
		in.TTransfer, in.TCommAG, in.TSeparation, in.TCoordination,
		in.AdjustmentFactorR, in.CapacityBaseline,
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update sector %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// Delete removes the sector; deleting a missing sector is not an error
func (r *SectorRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, constants.DeleteSector, id)
	return err
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
