package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/filters"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// decodeBody decodes an optional JSON body into v; an empty body leaves v untouched
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// decodeFilter reads the FilterSpec body of an analytics request
func decodeFilter(r *http.Request) (filters.FilterSpec, error) {
	var spec filters.FilterSpec
	if err := decodeBody(r, &spec); err != nil {
		return spec, common.NewCoreError(constants.ErrCodeInvalidFilter, "Invalid filter body: "+err.Error(), err)
	}
	return spec, nil
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewCoreError(constants.ErrCodeInvalidFilter,
			fmt.Sprintf("%s must be an integer, got %q", name, raw), err)
	}
	return v, nil
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
