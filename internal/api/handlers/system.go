package handlers

import (
	"net/http"
	"time"

	"github.com/racional/portfolio-ledger/internal/api/response"
	"github.com/racional/portfolio-ledger/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService   *service.SystemService
	snapshotService *service.SnapshotService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService, snapshotService *service.SnapshotService) *SystemHandler {
	return &SystemHandler{
		systemService:   systemService,
		snapshotService: snapshotService,
	}
}

// Health reports database connectivity.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, "unhealthy", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Version reports the build version.
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, map[string]string{"version": h.systemService.CheckVersion()})
}

// CaptureSnapshots triggers an immediate snapshot sweep of all portfolios.
// Guarded by the API-key middleware; normally the cron schedule drives this.
func (h *SystemHandler) CaptureSnapshots(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if err := h.snapshotService.CaptureAll(r.Context(), asOf); err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, map[string]string{"capturedAt": asOf.UTC().Format(time.RFC3339)})
}
