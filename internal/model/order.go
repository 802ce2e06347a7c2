package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Order statuses. Orders settle atomically ("market fill"); there is no
// partial-fill lifecycle. FILLED and CANCELED are terminal.
const (
	StatusPending  = "PENDING"
	StatusFilled   = "FILLED"
	StatusCanceled = "CANCELED"
)

// Order represents a buy or sell instruction against a portfolio.
type Order struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	StockID     string          `json:"stockId"`
	Side        string          `json:"side"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	PlacedAt    time.Time       `json:"placedAt"`
	Status      string          `json:"status"`
	FilledAt    *time.Time      `json:"filledAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OrderWithStock enriches an order with its stock reference data for API
// responses.
type OrderWithStock struct {
	Order
	Stock Stock `json:"stock"`
}
