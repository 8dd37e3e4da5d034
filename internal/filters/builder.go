package filters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/models/entities"
	"airspace-analytics/sectorcap/internal/parsing"
)

// Where is a parameterized SQL predicate over the flights table
type Where struct {
	Clause string
	Params []any
}

// And appends a predicate
func (w Where) And(clause string, params ...any) Where {
	if w.Clause == "" || w.Clause == "1=1" {
		w.Clause = clause
	} else {
		w.Clause = w.Clause + " AND " + clause
	}
	w.Params = append(append([]any{}, w.Params...), params...)
	return w
}

// SectorResolver loads a sector by id, returning (nil, nil) when it does not exist
type SectorResolver interface {
	GetByID(ctx context.Context, id string) (*entities.Sector, error)
}

type buildOptions struct {
	seasonal bool
	sector   *entities.Sector
}

type Option func(*buildOptions)

// Seasonal turns the date window into a month-day window repeated across every year
func Seasonal() Option {
	return func(o *buildOptions) { o.seasonal = true }
}

// ForSector scopes the predicate to an already loaded sector
func ForSector(s *entities.Sector) Option {
	return func(o *buildOptions) { o.sector = s }
}

type Builder struct {
	sectors SectorResolver
}

func NewBuilder(sectors SectorResolver) *Builder {
	return &Builder{sectors: sectors}
}

var listColumns = []struct {
	column string
	values func(FilterSpec) FilterValues
}{
	{"origen", func(f FilterSpec) FilterValues { return f.Origins }},
	{"destino", func(f FilterSpec) FilterValues { return f.Destinations }},
	{"empresa", func(f FilterSpec) FilterValues { return f.Empresa }},
	{"tipo_aeronave", func(f FilterSpec) FilterValues { return f.TipoAeronave }},
	{"tipo_vuelo", func(f FilterSpec) FilterValues { return f.TipoVuelo }},
	{"matricula", func(f FilterSpec) FilterValues { return f.Matriculas }},
	{"callsign", func(f FilterSpec) FilterValues { return f.Callsign }},
}

// Build renders spec as a WHERE predicate with positional parameters.
// An empty spec yields "1=1".
func (b *Builder) Build(ctx context.Context, spec FilterSpec, opts ...Option) (Where, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	w := Where{Clause: "1=1"}

	start, end, err := parseWindow(spec)
	if err != nil {
		return Where{}, err
	}
	if o.seasonal && start != nil && end != nil {
		w = seasonalWindow(w, *start, *end)
	} else {
		if start != nil {
			w = w.And("fecha >= CAST(? AS DATE)", parsing.FormatDate(*start))
		}
		if end != nil {
			w = w.And("fecha <= CAST(? AS DATE)", parsing.FormatDate(*end))
		}
	}

	sectors := make([]*entities.Sector, 0, 2)
	if o.sector != nil {
		sectors = append(sectors, o.sector)
	}
	if id := strings.TrimSpace(spec.SectorID); id != "" && (o.sector == nil || o.sector.ID != id) {
		s, err := b.resolveSector(ctx, id)
		if err != nil {
			return Where{}, err
		}
		sectors = append(sectors, s)
	}

	minLevel, maxLevel := spec.MinLevel, spec.MaxLevel
	if minLevel == nil && maxLevel == nil {
		for _, s := range sectors {
			if s.Definition.MinLevel != nil || s.Definition.MaxLevel != nil {
				minLevel, maxLevel = s.Definition.MinLevel, s.Definition.MaxLevel
				break
			}
		}
	}
	if minLevel != nil && maxLevel != nil && *minLevel > *maxLevel {
		return Where{}, common.NewCoreError(constants.ErrCodeInvalidFilter,
			fmt.Sprintf("min_level %d is above max_level %d", *minLevel, *maxLevel), nil)
	}
	if minLevel != nil {
		w = w.And("nivel >= ?", *minLevel)
	}
	if maxLevel != nil {
		w = w.And("nivel <= ?", *maxLevel)
	}

	for _, s := range sectors {
		w = inList(w, "origen", s.Definition.Origins)
		w = inList(w, "destino", s.Definition.Destinations)
	}

	if airport := strings.TrimSpace(spec.Airport); airport != "" {
		w = w.And("(origen = ? OR destino = ?)", airport, airport)
	}

	if route := strings.TrimSpace(spec.Route); route != "" {
		origin, destination, ok := strings.Cut(route, "-")
		origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
		if !ok || origin == "" || destination == "" {
			return Where{}, common.NewCoreError(constants.ErrCodeInvalidFilter,
				fmt.Sprintf("route %q must look like ORIG-DEST", route), nil)
		}
		w = w.And("origen = ? AND destino = ?", origin, destination)
	}

	for _, lc := range listColumns {
		w = inList(w, lc.column, lc.values(spec).clean())
	}

	return w, nil
}

func (b *Builder) resolveSector(ctx context.Context, id string) (*entities.Sector, error) {
	if b.sectors == nil {
		return nil, common.NewCoreError(constants.ErrCodeSectorNotFound, "", nil)
	}
	s, err := b.sectors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve sector %s: %w", id, err)
	}
	if s == nil {
		return nil, common.NewCoreError(constants.ErrCodeSectorNotFound,
			fmt.Sprintf("Sector %s not found", id), nil)
	}
	return s, nil
}

func parseWindow(spec FilterSpec) (*time.Time, *time.Time, error) {
	parse := func(name, raw string) (*time.Time, error) {
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		d, ok := parsing.ParseDate(raw)
		if !ok {
			return nil, common.NewCoreError(constants.ErrCodeInvalidFilter,
				fmt.Sprintf("%s %q is not a recognised date", name, raw), nil)
		}
		return &d, nil
	}

	start, err := parse("start_date", spec.StartDate)
	if err != nil {
		return nil, nil, err
	}
	end, err := parse("end_date", spec.EndDate)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// seasonalWindow filters on the MM-DD range; a window that wraps the new year
// matches either tail.
func seasonalWindow(w Where, start, end time.Time) Where {
	startMD, endMD := start.Format("01-02"), end.Format("01-02")
	if endMD < startMD {
		return w.And("(strftime(fecha, '%m-%d') >= ? OR strftime(fecha, '%m-%d') <= ?)", startMD, endMD)
	}
	return w.And("strftime(fecha, '%m-%d') BETWEEN ? AND ?", startMD, endMD)
}

func inList(w Where, column string, values []string) Where {
	if len(values) == 0 {
		return w
	}
	params := make([]any, len(values))
	for i, v := range values {
		params[i] = v
	}
	return w.And(fmt.Sprintf("%s IN (%s)", column, Placeholders(len(values))), params...)
}

// Placeholders returns "?, ?, ..." with n markers
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
