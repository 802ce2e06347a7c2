package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/api/response"
	"github.com/racional/portfolio-ledger/internal/service"
	"github.com/racional/portfolio-ledger/internal/validation"
)

// PositionHandler handles position HTTP requests
type PositionHandler struct {
	positionService *service.PositionService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// List serves a portfolio's positions with stock data.
func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	positions, err := h.positionService.ListPositions(portfolioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}

// Adjust applies a manual quantity delta to an existing position.
func (h *PositionHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	var req request.AdjustPositionRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateAdjustPosition(req); err != nil {
		respondServiceError(w, err)
		return
	}

	position, err := h.positionService.AdjustQuantity(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}
