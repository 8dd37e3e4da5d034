package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/models/entities"
)

func (h *Handlers) ListSectors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		sectors, err := h.deps.Services.Sectors.List(r.Context())
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Sectors", sectors)
	}
}

func (h *Handlers) GetSector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		sector, err := h.deps.Services.Sectors.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Sector", sector)
	}
}

// CreateSector handles POST /api/v1/sectors
func (h *Handlers) CreateSector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var in entities.SectorInput
		if err := decodeBody(r, &in); err != nil {
			common.RespondError(w, initTime, nil, "Invalid request body", http.StatusBadRequest)
			return
		}

		sector, err := h.deps.Services.Sectors.Create(r.Context(), in)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Sector created", sector, http.StatusCreated)
	}
}

// UpdateSector handles PUT /api/v1/sectors/{id}; omitted fields keep their values
func (h *Handlers) UpdateSector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var in entities.SectorInput
		if err := decodeBody(r, &in); err != nil {
			common.RespondError(w, initTime, nil, "Invalid request body", http.StatusBadRequest)
			return
		}

		sector, err := h.deps.Services.Sectors.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Sector updated", sector)
	}
}

func (h *Handlers) DeleteSector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.Sectors.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Sector deleted", nil)
	}
}
