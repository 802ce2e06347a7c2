package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cash movement types. Direction is encoded by type, not by the sign of the
// amount: amounts are always positive.
const (
	MovementDeposit         = "DEPOSIT"
	MovementWithdrawal      = "WITHDRAWAL"
	MovementOrderSettlement = "ORDER_SETTLEMENT"
	MovementAdjustment      = "ADJUSTMENT"
)

// CashMovement represents a cash event affecting a portfolio's balance.
// Rows are immutable once created.
type CashMovement struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	HappenedAt  time.Time       `json:"happenedAt"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
