package request

import "github.com/shopspring/decimal"

// PlaceOrderRequest is the body for placing an order against a portfolio.
// By default the order settles immediately; Pending creates it without
// effects, to be filled or canceled later via a status update.
type PlaceOrderRequest struct {
	StockID  string          `json:"stockId"`
	Side     string          `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	PlacedAt string          `json:"placedAt,omitempty"`
	Pending  bool            `json:"pending,omitempty"`
}

// UpdateOrderStatusRequest is the body for transitioning an order's status.
type UpdateOrderStatusRequest struct {
	Status   string  `json:"status"`
	FilledAt *string `json:"filledAt,omitempty"`
}
