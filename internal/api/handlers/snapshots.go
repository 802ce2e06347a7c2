package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/racional/portfolio-ledger/internal/api/response"
	"github.com/racional/portfolio-ledger/internal/service"
)

// SnapshotHandler handles snapshot HTTP requests
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// List serves a portfolio's snapshot history, newest first. This is the
// charting feed.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	snapshots, err := h.snapshotService.ListSnapshots(portfolioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}
