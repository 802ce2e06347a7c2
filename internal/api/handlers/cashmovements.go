package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/api/response"
	"github.com/racional/portfolio-ledger/internal/service"
	"github.com/racional/portfolio-ledger/internal/validation"
)

// CashMovementHandler handles cash movement HTTP requests
type CashMovementHandler struct {
	movementService *service.CashMovementService
}

// NewCashMovementHandler creates a new CashMovementHandler
func NewCashMovementHandler(movementService *service.CashMovementService) *CashMovementHandler {
	return &CashMovementHandler{
		movementService: movementService,
	}
}

// Record records a deposit or withdrawal against a portfolio.
func (h *CashMovementHandler) Record(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	var req request.RecordCashMovementRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateRecordCashMovement(req); err != nil {
		respondServiceError(w, err)
		return
	}

	movement, err := h.movementService.RecordMovement(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, movement)
}

// List serves a portfolio's cash movements, newest first. An optional limit
// query parameter caps the result.
func (h *CashMovementHandler) List(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			response.RespondError(w, http.StatusBadRequest, "invalid limit", v)
			return
		}
		limit = parsed
	}

	movements, err := h.movementService.ListMovements(portfolioID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, movements)
}
