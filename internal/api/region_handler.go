package api

import (
	"net/http"
	"time"

	"airspace-analytics/sectorcap/internal/common"
)

func (h *Handlers) ListRegions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		regions, err := h.deps.Services.Regions.List(r.Context())
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Regions", regions)
	}
}

// LoadRegions handles POST /api/v1/regions/load. The body replaces all regions.
func (h *Handlers) LoadRegions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		count, err := h.deps.Services.Regions.LoadFromJSON(r.Context(), r.Body)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to load regions", http.StatusBadRequest)
			return
		}
		common.RespondSuccess(w, initTime, "Regions loaded", map[string]int{"regions": count})
	}
}
