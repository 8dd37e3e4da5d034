package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/models/entities"
)

// RegionRepository holds the region reference data used to enrich reports
type RegionRepository struct {
	db *sqlx.DB
}

func NewRegionRepository(db *sqlx.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// ReplaceAll swaps the whole region table set in one transaction
func (r *RegionRepository) ReplaceAll(ctx context.Context, regions []entities.Region) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, constants.DeleteAllRegionAirports); err != nil {
		return fmt.Errorf("clear region airports: %w", err)
	}
	if _, err := tx.ExecContext(ctx, constants.DeleteAllRegions); err != nil {
		return fmt.Errorf("clear regions: %w", err)
	}

	for _, region := range regions {
		if _, err := tx.ExecContext(ctx, constants.InsertRegion, region.ID, region.Name); err != nil {
			return fmt.Errorf("insert region %s: %w", region.ID, err)
		}
		for _, icao := range region.Airports {
			if _, err := tx.ExecContext(ctx, constants.InsertRegionAirport, region.ID, icao); err != nil {
				return fmt.Errorf("insert airport %s of region %s: %w", icao, region.ID, err)
			}
		}
	}
	return tx.Commit()
}

func (r *RegionRepository) List(ctx context.Context) ([]entities.Region, error) {
	var rows []struct {
		ID   string  `db:"id"`
		Name string  `db:"name"`
		ICAO *string `db:"icao_code"`
	}
	if err := r.db.SelectContext(ctx, &rows, constants.ListRegionsWithAirports); err != nil {
		return nil, err
	}

	regions := []entities.Region{}
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.ID]
		if !ok {
			i = len(regions)
			index[row.ID] = i
			regions = append(regions, entities.Region{ID: row.ID, Name: row.Name, Airports: []string{}})
		}
		if row.ICAO != nil {
			regions[i].Airports = append(regions[i].Airports, *row.ICAO)
		}
	}
	return regions, nil
}

// ForAirports returns the regions containing any of the given ICAO codes
func (r *RegionRepository) ForAirports(ctx context.Context, icaoCodes []string) ([]entities.Region, error) {
	regions := []entities.Region{}
	if len(icaoCodes) == 0 {
		return regions, nil
	}

	args := make([]any, len(icaoCodes))
	for i, c := range icaoCodes {
		args[i] = c
	}
	query := fmt.Sprintf(constants.RegionsForAirportsFmt, filters.Placeholders(len(icaoCodes)))
	if err := r.db.SelectContext(ctx, &regions, query, args...); err != nil {
		return nil, err
	}
	return regions, nil
}
