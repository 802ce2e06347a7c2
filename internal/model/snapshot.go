package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time record of a portfolio's aggregate values,
// unique per (portfolioId, asOf). Re-recording the same key overwrites the
// existing row.
type Snapshot struct {
	ID            string          `json:"id"`
	PortfolioID   string          `json:"portfolioId"`
	AsOf          time.Time       `json:"asOf"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	CashValue     decimal.Decimal `json:"cashValue"`
	InvestedValue decimal.Decimal `json:"investedValue"`
	CreatedAt     time.Time       `json:"createdAt"`
}
