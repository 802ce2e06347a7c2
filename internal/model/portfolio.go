package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio represents a user's portfolio with its aggregate value fields.
// The invariant totalValue = cashValue + investedValue holds after every
// committed mutation.
type Portfolio struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Name          string          `json:"name"`
	BaseCurrency  string          `json:"baseCurrency"`
	CashValue     decimal.Decimal `json:"cashValue"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	InvestedValue decimal.Decimal `json:"investedValue"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PortfolioDetail is a portfolio with its owned child collections, as served
// by the single-portfolio endpoint.
type PortfolioDetail struct {
	Portfolio
	Positions     []PositionWithStock `json:"positions"`
	CashMovements []CashMovement      `json:"cashMovements"`
	Orders        []OrderWithStock    `json:"orders"`
	Snapshots     []Snapshot          `json:"snapshots"`
}

// LatestActions bundles a portfolio's most recent orders and cash movements
// for the activity feed.
type LatestActions struct {
	Orders        []OrderWithStock `json:"orders"`
	CashMovements []CashMovement   `json:"cashMovements"`
}
