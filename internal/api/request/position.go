package request

import "github.com/shopspring/decimal"

// AdjustPositionRequest is the body for a standalone position quantity
// adjustment.
type AdjustPositionRequest struct {
	StockID       string           `json:"stockId"`
	QuantityDelta decimal.Decimal  `json:"quantityDelta"`
	Price         *decimal.Decimal `json:"price,omitempty"`
}
