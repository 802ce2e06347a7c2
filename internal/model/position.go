package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position represents a portfolio's holding in one stock. There is at most
// one row per (portfolioId, stockId) pair; quantity may reach zero but the
// row is never deleted.
type Position struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	StockID     string          `json:"stockId"`
	Quantity    decimal.Decimal `json:"quantity"`
	AvgPrice    decimal.Decimal `json:"avgPrice"`
	LastPrice   decimal.Decimal `json:"lastPrice"`
	Currency    string          `json:"currency"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PositionWithStock enriches a position with its stock reference data for
// API responses.
type PositionWithStock struct {
	Position
	Stock Stock `json:"stock"`
}
