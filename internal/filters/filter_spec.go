package filters

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FilterSpec is the uniform filter accepted by every analytical query.
// Unset fields contribute no constraint.
type FilterSpec struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	MinLevel  *int   `json:"min_level,omitempty"`
	MaxLevel  *int   `json:"max_level,omitempty"`
	SectorID  string `json:"sector_id,omitempty"`
	Airport   string `json:"airport,omitempty"`
	Route     string `json:"route,omitempty"`

	Origins      FilterValues `json:"origins,omitempty"`
	Destinations FilterValues `json:"destinations,omitempty"`
	Empresa      FilterValues `json:"empresa,omitempty"`
	TipoAeronave FilterValues `json:"tipo_aeronave,omitempty"`
	TipoVuelo    FilterValues `json:"tipo_vuelo,omitempty"`
	Matriculas   FilterValues `json:"matriculas,omitempty"`
	Callsign     FilterValues `json:"callsign,omitempty"`
}

// HasDateWindow reports whether both ends of the date window are set, which
// is what switches forecasters into seasonal mode.
func (f FilterSpec) HasDateWindow() bool {
	return strings.TrimSpace(f.StartDate) != "" && strings.TrimSpace(f.EndDate) != ""
}

// WithSector returns a copy scoped to the given sector
func (f FilterSpec) WithSector(sectorID string) FilterSpec {
	f.SectorID = sectorID
	return f
}

// FilterValues is a multi-select. It decodes plain scalars as well as the
// frontend's option objects, taking value, then value.icao_code, then id,
// then label.
type FilterValues []string

func (v *FilterValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	var out []string
	switch t := raw.(type) {
	case nil:
	case []any:
		for _, item := range t {
			if s, ok := extractValue(item); ok {
				out = append(out, s)
			}
		}
	default:
		if s, ok := extractValue(t); ok {
			out = append(out, s)
		}
	}

	*v = out
	return nil
}

func extractValue(item any) (string, bool) {
	if s, ok := scalar(item); ok {
		return s, true
	}

	obj, ok := item.(map[string]any)
	if !ok {
		return "", false
	}

	if val, ok := obj["value"]; ok {
		if s, ok := scalar(val); ok {
			return s, true
		}
		if nested, ok := val.(map[string]any); ok {
			if s, ok := scalar(nested["icao_code"]); ok {
				return s, true
			}
		}
	}
	for _, key := range []string{"id", "label"} {
		if s, ok := scalar(obj[key]); ok {
			return s, true
		}
	}
	return "", false
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// clean drops blank entries
func (v FilterValues) clean() []string {
	out := make([]string, 0, len(v))
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
