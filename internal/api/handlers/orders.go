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

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Place places an order against a portfolio. Without the pending flag the
// order settles immediately.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	var req request.PlaceOrderRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidatePlaceOrder(req); err != nil {
		respondServiceError(w, err)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, order)
}

// List serves a portfolio's orders, newest first. An optional limit query
// parameter caps the result.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
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

	orders, err := h.orderService.ListOrders(portfolioID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, orders)
}

// Get retrieves a single order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "uuid")

	order, err := h.orderService.GetOrder(orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, order)
}

// UpdateStatus transitions a pending order to FILLED or CANCELED.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "uuid")

	var req request.UpdateOrderStatusRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateUpdateOrderStatus(req); err != nil {
		respondServiceError(w, err)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(r.Context(), orderID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, order)
}
