package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/api/response"
	"github.com/racional/portfolio-ledger/internal/service"
	"github.com/racional/portfolio-ledger/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Create creates a portfolio for an existing user with zero balances.
func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePortfolioRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondServiceError(w, err)
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// Get retrieves a portfolio with all its child collections.
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	detail, err := h.portfolioService.GetPortfolioDetail(portfolioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}

// UpdateInfo renames a portfolio.
func (h *PortfolioHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	var req request.UpdatePortfolioInfoRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateUpdatePortfolioInfo(req); err != nil {
		respondServiceError(w, err)
		return
	}

	portfolio, err := h.portfolioService.UpdateInfo(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// UpdateTotals overwrites a portfolio's aggregate values directly.
func (h *PortfolioHandler) UpdateTotals(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	var req request.UpdatePortfolioTotalsRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateUpdatePortfolioTotals(req); err != nil {
		respondServiceError(w, err)
		return
	}

	portfolio, err := h.portfolioService.UpdateTotals(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// LatestActions serves the portfolio's recent activity feed.
func (h *PortfolioHandler) LatestActions(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	actions, err := h.portfolioService.LatestActions(portfolioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, actions)
}
