package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/models/entities"
)

// RegionStore persists region reference data
type RegionStore interface {
	ReplaceAll(ctx context.Context, regions []entities.Region) error
	List(ctx context.Context) ([]entities.Region, error)
}

// RegionLoaderService loads region reference data from JSON
type RegionLoaderService struct {
	store RegionStore
}

// RawRegionData is one entry of the regions file
type RawRegionData struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Airports []string `json:"airports"`
}

func NewRegionLoaderService(store RegionStore) *RegionLoaderService {
	return &RegionLoaderService{store: store}
}

// LoadFromJSON replaces all regions with the content of reader.
// Expected format: {"regions": [{"id": "N", "name": "North", "airports": ["SKBO"]}]}
func (s *RegionLoaderService) LoadFromJSON(ctx context.Context, reader io.Reader) (int, error) {
	var payload struct {
		Regions []RawRegionData `json:"regions"`
	}
	if err := json.NewDecoder(reader).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	regions := make([]entities.Region, 0, len(payload.Regions))
	seen := map[string]bool{}
	for _, raw := range payload.Regions {
		id := strings.TrimSpace(raw.ID)
		name := strings.TrimSpace(raw.Name)
		if id == "" || name == "" || seen[id] {
			continue // Skip invalid and duplicate records
		}
		seen[id] = true

		airports := make([]string, 0, len(raw.Airports))
		codes := map[string]bool{}
		for _, code := range raw.Airports {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code == "" || codes[code] {
				continue
			}
			codes[code] = true
			airports = append(airports, code)
		}
		regions = append(regions, entities.Region{ID: id, Name: name, Airports: airports})
	}

	if len(regions) == 0 {
		return 0, fmt.Errorf("no valid regions found after parsing")
	}

	if err := s.store.ReplaceAll(ctx, regions); err != nil {
		return 0, fmt.Errorf("failed to store regions: %w", err)
	}

	logging.Info("Region reference data loaded", "regions", len(regions))
	return len(regions), nil
}

func (s *RegionLoaderService) LoadFromFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.LoadFromJSON(ctx, f)
}

func (s *RegionLoaderService) List(ctx context.Context) ([]entities.Region, error) {
	return s.store.List(ctx)
}
