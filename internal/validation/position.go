package validation

import (
	"github.com/racional/portfolio-ledger/internal/api/request"
)

// ValidateAdjustPosition validates a standalone position adjustment request.
// quantityDelta may be negative (the engine rejects adjustments that would
// drive the position below zero).
func ValidateAdjustPosition(req request.AdjustPositionRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.StockID); err != nil {
		errors["stockId"] = err.Error()
	}

	if req.QuantityDelta.IsZero() {
		errors["quantityDelta"] = "quantityDelta must be non-zero"
	}

	if req.Price != nil && req.Price.IsNegative() {
		errors["price"] = "price must be non-negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
