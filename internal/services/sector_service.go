package services

import (
	"context"
	"fmt"
	"strings"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/models/entities"
)

type SectorService struct {
	store SectorStore
	cache *common.ResultCache
}

func NewSectorService(store SectorStore, cache *common.ResultCache) *SectorService {
	return &SectorService{store: store, cache: cache}
}

func (s *SectorService) List(ctx context.Context) ([]entities.Sector, error) {
	return s.store.List(ctx)
}

func (s *SectorService) Get(ctx context.Context, id string) (*entities.Sector, error) {
	sector, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sector == nil {
		return nil, common.NewCoreError(constants.ErrCodeSectorNotFound, "", nil)
	}
	return sector, nil
}

func (s *SectorService) Create(ctx context.Context, in entities.SectorInput) (*entities.Sector, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, common.NewCoreError(constants.ErrCodeInvalidSector, "Sector name is required", nil)
	}
	if err := validateSectorInput(&in); err != nil {
		return nil, err
	}

	sector, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	logging.Info("Sector created", "sector_id", sector.ID, "name", sector.Name, "tfc", sector.TFC())
	return sector, nil
}

// Update applies the set fields of in; unset fields keep their stored values
func (s *SectorService) Update(ctx context.Context, id string, in entities.SectorInput) (*entities.Sector, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, common.NewCoreError(constants.ErrCodeInvalidSector, "Sector name cannot be blank", nil)
	}
	if err := validateSectorInput(&in); err != nil {
		return nil, err
	}

	sector, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if sector == nil {
		return nil, common.NewCoreError(constants.ErrCodeSectorNotFound, "", nil)
	}
	// cached capacity and saturation results embed the old definition
	s.cache.Invalidate()
	logging.Info("Sector updated", "sector_id", sector.ID, "tfc", sector.TFC())
	return sector, nil
}

func (s *SectorService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	logging.Info("Sector deleted", "sector_id", id)
	return nil
}

func validateSectorInput(in *entities.SectorInput) error {
	times := []struct {
		name  string
		value *float64
	}{
		{"t_transfer", in.TTransfer},
		{"t_comm_ag", in.TCommAG},
		{"t_separation", in.TSeparation},
		{"t_coordination", in.TCoordination},
	}
	for _, t := range times {
		if t.value != nil && *t.value < 0 {
			return common.NewCoreError(constants.ErrCodeInvalidSector, fmt.Sprintf("%s cannot be negative", t.name), nil)
		}
	}

	if r := in.AdjustmentFactorR; r != nil && (*r <= 0 || *r > 1) {
		return common.NewCoreError(constants.ErrCodeInvalidSector, "adjustment_factor_r must be in (0, 1]", nil)
	}

	if d := in.Definition; d != nil {
		d.Origins = normalizeCodes(d.Origins)
		d.Destinations = normalizeCodes(d.Destinations)
		if d.MinLevel != nil && d.MaxLevel != nil && *d.MinLevel > *d.MaxLevel {
			return common.NewCoreError(constants.ErrCodeInvalidSector, "min_level cannot exceed max_level", nil)
		}
	}
	return nil
}

// normalizeCodes trims, uppercases and dedupes ICAO codes, keeping order
func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
