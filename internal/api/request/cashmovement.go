package request

import "github.com/shopspring/decimal"

// RecordCashMovementRequest is the body for recording a deposit or
// withdrawal against a portfolio.
type RecordCashMovementRequest struct {
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	HappenedAt string          `json:"happenedAt"`
	Note       string          `json:"note,omitempty"`
}
