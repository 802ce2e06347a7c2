package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/api/response"
	"github.com/racional/portfolio-ledger/internal/service"
	"github.com/racional/portfolio-ledger/internal/validation"
)

// StockHandler handles stock reference data HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// Create registers a stock.
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateStockRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateCreateStock(req); err != nil {
		respondServiceError(w, err)
		return
	}

	stock, err := h.stockService.CreateStock(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, stock)
}

// Get retrieves a stock by ID.
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	stockID := chi.URLParam(r, "uuid")

	stock, err := h.stockService.GetStock(stockID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// List retrieves all stocks ordered by symbol.
func (h *StockHandler) List(w http.ResponseWriter, _ *http.Request) {
	stocks, err := h.stockService.ListStocks()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, stocks)
}
