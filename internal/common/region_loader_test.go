package common

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airspace-analytics/sectorcap/internal/models/entities"
)

type mockRegionStore struct {
	ReplaceAllFunc func(ctx context.Context, regions []entities.Region) error
	ListFunc       func(ctx context.Context) ([]entities.Region, error)
}

func (m *mockRegionStore) ReplaceAll(ctx context.Context, regions []entities.Region) error {
	return m.ReplaceAllFunc(ctx, regions)
}

func (m *mockRegionStore) List(ctx context.Context) ([]entities.Region, error) {
	return m.ListFunc(ctx)
}

func TestRegionLoader_LoadFromJSON(t *testing.T) {
	var stored []entities.Region
	store := &mockRegionStore{
		ReplaceAllFunc: func(ctx context.Context, regions []entities.Region) error {
			stored = regions
			return nil
		},
	}
	loader := NewRegionLoaderService(store)

	input := `{"regions": [
		{"id": "N", "name": "North", "airports": ["skbo", " SKBO", "SKCL"]},
		{"id": "", "name": "No id"},
		{"id": "N", "name": "Duplicate"},
		{"id": "S", "name": "South", "airports": []}
	]}`

	n, err := loader.LoadFromJSON(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, stored, 2)
	assert.Equal(t, []string{"SKBO", "SKCL"}, stored[0].Airports)
	assert.Equal(t, "South", stored[1].Name)
}

func TestRegionLoader_Errors(t *testing.T) {
	boom := errors.New("disk full")
	loader := NewRegionLoaderService(&mockRegionStore{
		ReplaceAllFunc: func(ctx context.Context, regions []entities.Region) error { return boom },
	})

	_, err := loader.LoadFromJSON(context.Background(), strings.NewReader(`{"regions": []}`))
	assert.Error(t, err)

	_, err = loader.LoadFromJSON(context.Background(), strings.NewReader(`not json`))
	assert.Error(t, err)

	_, err = loader.LoadFromJSON(context.Background(), strings.NewReader(`{"regions": [{"id": "N", "name": "North"}]}`))
	assert.ErrorIs(t, err, boom)
}
