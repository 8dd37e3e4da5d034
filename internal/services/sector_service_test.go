package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/models/entities"
)

func ptr[T any](v T) *T { return &v }

func TestSectorService_CreateValidates(t *testing.T) {
	var stored entities.SectorInput
	store := &mockSectorStore{
		createFunc: func(_ context.Context, in entities.SectorInput) (*entities.Sector, error) {
			stored = in
			return &entities.Sector{ID: "new", Name: *in.Name}, nil
		},
	}
	svc := NewSectorService(store, nil)

	cases := map[string]entities.SectorInput{
		"no name":        {TTransfer: ptr(10.0)},
		"negative time":  {Name: ptr("S"), TSeparation: ptr(-1.0)},
		"zero factor":    {Name: ptr("S"), AdjustmentFactorR: ptr(0.0)},
		"factor above 1": {Name: ptr("S"), AdjustmentFactorR: ptr(1.2)},
		"inverted band": {Name: ptr("S"), Definition: &entities.SectorDefinition{
			MinLevel: ptr(300), MaxLevel: ptr(200),
		}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), in)
			assert.Equal(t, constants.ErrCodeInvalidSector, common.ErrorCode(err))
		})
	}

	sector, err := svc.Create(context.Background(), entities.SectorInput{
		Name:              ptr("LECM North"),
		AdjustmentFactorR: ptr(1.0),
		Definition:        &entities.SectorDefinition{Origins: []string{" lemd", "LEMD", ""}},
	})
	require.NoError(t, err)
	assert.Equal(t, "new", sector.ID)
	assert.Equal(t, []string{"LEMD"}, stored.Definition.Origins)
}

func TestSectorService_GetAndUpdateNotFound(t *testing.T) {
	store := &mockSectorStore{
		updateFunc: func(context.Context, string, entities.SectorInput) (*entities.Sector, error) {
			return nil, nil
		},
	}
	svc := NewSectorService(store, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, constants.ErrCodeSectorNotFound, common.ErrorCode(err))

	_, err = svc.Update(context.Background(), "missing", entities.SectorInput{TTransfer: ptr(5.0)})
	assert.Equal(t, constants.ErrCodeSectorNotFound, common.ErrorCode(err))
}

func TestSectorService_UpdateInvalidatesCache(t *testing.T) {
	cache := newTestCache()
	store := &mockSectorStore{
		updateFunc: func(_ context.Context, id string, _ entities.SectorInput) (*entities.Sector, error) {
			return &entities.Sector{ID: id}, nil
		},
		deleteFunc: func(context.Context, string) error { return nil },
	}
	svc := NewSectorService(store, cache)

	_, err := svc.Update(context.Background(), "s1", entities.SectorInput{TCommAG: ptr(12.0)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cache.Generation())

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, int64(2), cache.Generation())
}

func TestSectorService_UpdateRejectsBlankName(t *testing.T) {
	_, err := NewSectorService(&mockSectorStore{}, nil).Update(context.Background(), "s1", entities.SectorInput{Name: ptr("  ")})
	assert.Equal(t, constants.ErrCodeInvalidSector, common.ErrorCode(err))
}
