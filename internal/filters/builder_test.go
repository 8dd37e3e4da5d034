package filters

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/models/entities"
)

type mockSectorResolver struct {
	GetByIDFunc func(ctx context.Context, id string) (*entities.Sector, error)
}

func (m *mockSectorResolver) GetByID(ctx context.Context, id string) (*entities.Sector, error) {
	return m.GetByIDFunc(ctx, id)
}

func intPtr(v int) *int { return &v }

func TestBuild(t *testing.T) {
	tests := []struct {
		name   string
		spec   FilterSpec
		opts   []Option
		clause string
		params []any
	}{
		{
			name:   "empty spec",
			spec:   FilterSpec{},
			clause: "1=1",
		},
		{
			name:   "date window",
			spec:   FilterSpec{StartDate: "2024-01-01", EndDate: "31/01/2024"},
			clause: "fecha >= CAST(? AS DATE) AND fecha <= CAST(? AS DATE)",
			params: []any{"2024-01-01", "2024-01-31"},
		},
		{
			name:   "level band",
			spec:   FilterSpec{MinLevel: intPtr(200), MaxLevel: intPtr(350)},
			clause: "nivel >= ? AND nivel <= ?",
			params: []any{200, 350},
		},
		{
			name:   "airport",
			spec:   FilterSpec{Airport: "SKBO"},
			clause: "(origen = ? OR destino = ?)",
			params: []any{"SKBO", "SKBO"},
		},
		{
			name:   "route",
			spec:   FilterSpec{Route: "SKBO-SKRG"},
			clause: "origen = ? AND destino = ?",
			params: []any{"SKBO", "SKRG"},
		},
		{
			name:   "lists",
			spec:   FilterSpec{Empresa: FilterValues{"AVA", "LAN"}, Callsign: FilterValues{" ", "AVA123"}},
			clause: "empresa IN (?, ?) AND callsign IN (?)",
			params: []any{"AVA", "LAN", "AVA123"},
		},
		{
			name:   "seasonal window",
			spec:   FilterSpec{StartDate: "2024-06-15", EndDate: "2024-08-31"},
			opts:   []Option{Seasonal()},
			clause: "strftime(fecha, '%m-%d') BETWEEN ? AND ?",
			params: []any{"06-15", "08-31"},
		},
		{
			name:   "seasonal window across new year",
			spec:   FilterSpec{StartDate: "2023-12-15", EndDate: "2024-01-10"},
			opts:   []Option{Seasonal()},
			clause: "(strftime(fecha, '%m-%d') >= ? OR strftime(fecha, '%m-%d') <= ?)",
			params: []any{"12-15", "01-10"},
		},
		{
			name:   "seasonal intent without both dates falls back to calendar",
			spec:   FilterSpec{StartDate: "2024-06-15"},
			opts:   []Option{Seasonal()},
			clause: "fecha >= CAST(? AS DATE)",
			params: []any{"2024-06-15"},
		},
	}

	b := NewBuilder(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := b.Build(context.Background(), tt.spec, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.clause, w.Clause)
			if tt.params == nil {
				assert.Empty(t, w.Params)
			} else {
				assert.Equal(t, tt.params, w.Params)
			}
		})
	}
}

func TestBuild_SectorInjection(t *testing.T) {
	sector := &entities.Sector{
		ID: "s1",
		Definition: entities.SectorDefinition{
			Origins:      []string{"SKBO", "SKCL"},
			Destinations: []string{"SKRG"},
			MinLevel:     intPtr(245),
		},
	}
	resolver := &mockSectorResolver{
		GetByIDFunc: func(ctx context.Context, id string) (*entities.Sector, error) {
			if id == "s1" {
				return sector, nil
			}
			return nil, nil
		},
	}
	b := NewBuilder(resolver)

	w, err := b.Build(context.Background(), FilterSpec{SectorID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "nivel >= ? AND origen IN (?, ?) AND destino IN (?)", w.Clause)
	assert.Equal(t, []any{245, "SKBO", "SKCL", "SKRG"}, w.Params)

	// an explicit band on the filter wins over the sector band
	w, err = b.Build(context.Background(), FilterSpec{SectorID: "s1", MaxLevel: intPtr(300)})
	require.NoError(t, err)
	assert.Equal(t, "nivel <= ? AND origen IN (?, ?) AND destino IN (?)", w.Clause)

	w, err = b.Build(context.Background(), FilterSpec{}, ForSector(sector))
	require.NoError(t, err)
	assert.Equal(t, []any{245, "SKBO", "SKCL", "SKRG"}, w.Params)

	_, err = b.Build(context.Background(), FilterSpec{SectorID: "missing"})
	assert.True(t, common.IsCode(err, constants.ErrCodeSectorNotFound))
}

func TestBuild_ResolverFailure(t *testing.T) {
	boom := errors.New("connection lost")
	b := NewBuilder(&mockSectorResolver{
		GetByIDFunc: func(ctx context.Context, id string) (*entities.Sector, error) { return nil, boom },
	})

	_, err := b.Build(context.Background(), FilterSpec{SectorID: "s1"})
	assert.ErrorIs(t, err, boom)
}

func TestBuild_InvalidFilters(t *testing.T) {
	b := NewBuilder(nil)
	cases := []FilterSpec{
		{StartDate: "not-a-date"},
		{EndDate: "2024-13-45"},
		{Route: "SKBO"},
		{Route: "-SKRG"},
		{MinLevel: intPtr(400), MaxLevel: intPtr(100)},
	}
	for _, spec := range cases {
		_, err := b.Build(context.Background(), spec)
		assert.True(t, common.IsCode(err, constants.ErrCodeInvalidFilter), "%+v", spec)
	}
}

func TestFilterValues_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want FilterValues
	}{
		{"scalars", `["SKBO", "SKRG"]`, FilterValues{"SKBO", "SKRG"}},
		{"numbers", `[350, 1.5]`, FilterValues{"350", "1.5"}},
		{"single scalar", `"SKBO"`, FilterValues{"SKBO"}},
		{"null", `null`, nil},
		{"value objects", `[{"value": "AVA", "label": "Avianca"}]`, FilterValues{"AVA"}},
		{"nested icao", `[{"value": {"icao_code": "SKBO", "name": "El Dorado"}}]`, FilterValues{"SKBO"}},
		{"id fallback", `[{"id": "LAN", "label": "LATAM"}]`, FilterValues{"LAN"}},
		{"label fallback", `[{"label": "Wingo"}]`, FilterValues{"Wingo"}},
		{"unusable entries dropped", `[{}, "", {"value": {}}, "SKCL"]`, FilterValues{"SKCL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FilterValues
			require.NoError(t, json.Unmarshal([]byte(tt.json), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSpec_DecodesFrontendShape(t *testing.T) {
	raw := `{"start_date": "2024-01-01", "origins": [{"value": {"icao_code": "SKBO"}}], "empresa": ["AVA"], "min_level": 200}`

	var spec FilterSpec
	require.NoError(t, json.Unmarshal([]byte(raw), &spec))
	assert.Equal(t, FilterValues{"SKBO"}, spec.Origins)
	assert.Equal(t, FilterValues{"AVA"}, spec.Empresa)
	require.NotNil(t, spec.MinLevel)
	assert.Equal(t, 200, *spec.MinLevel)
	assert.False(t, spec.HasDateWindow())
}
