package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

// Ingest handles POST /api/v1/ingest. With async set the run continues in
// the background and the current progress is returned immediately.
func (h *Handlers) Ingest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.IngestRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, initTime, nil, "Invalid request body", http.StatusBadRequest)
			return
		}

		svc := h.deps.Services.Ingest
		if req.Async {
			go func() {
				if _, err := svc.Ingest(context.Background(), req.ForceReload, req.File); err != nil {
					logging.Error("Background ingestion failed", "file", req.File, "error", err.Error())
				}
			}()
			common.RespondSuccess(w, initTime, "Ingestion started", svc.Progress(), http.StatusAccepted)
			return
		}

		summary, err := svc.Ingest(r.Context(), req.ForceReload, req.File)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Ingestion finished", summary)
	}
}

func (h *Handlers) IngestProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		common.RespondSuccess(w, initTime, "Ingestion progress", h.deps.Services.Ingest.Progress())
	}
}

// IngestHistory handles GET /api/v1/ingest/history?limit=
func (h *Handlers) IngestHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit, err := queryInt(r, "limit", 100)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}

		history, err := h.deps.Services.Ingest.History(r.Context(), limit)
		if err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "Ingestion history", history)
	}
}

func (h *Handlers) ResetIngestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.Ingest.Reset(r.Context()); err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		logging.Warn("Ingestion tables reset", "remote_addr", r.RemoteAddr)
		common.RespondSuccess(w, initTime, "Flights and ingestion history cleared", nil)
	}
}

// DeleteFile handles DELETE /api/v1/files/{name}
func (h *Handlers) DeleteFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		name := chi.URLParam(r, "name")
		if err := h.deps.Services.Ingest.DeleteFile(r.Context(), name); err != nil {
			common.RespondCoreError(w, initTime, err, nil)
			return
		}
		common.RespondSuccess(w, initTime, "File "+name+" deleted", nil)
	}
}
