package validation

import (
	"fmt"
	"strings"

	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/model"
)

// ValidOrderSide contains the allowed order side values.
var ValidOrderSide = map[string]bool{
	model.SideBuy:  true,
	model.SideSell: true,
}

// ValidOrderStatus contains the allowed order status values.
var ValidOrderStatus = map[string]bool{
	model.StatusPending:  true,
	model.StatusFilled:   true,
	model.StatusCanceled: true,
}

// ValidatePlaceOrder validates an order placement request.
//
// Required fields:
//   - stockId: must be a valid UUID
//   - side: BUY or SELL
//   - quantity: must be positive
//   - price: must be positive (per-unit)
//   - currency: ISO 4217 code
//   - placedAt: optional; RFC3339 timestamp or YYYY-MM-DD date if present
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidatePlaceOrder(req request.PlaceOrderRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.StockID); err != nil {
		errors["stockId"] = err.Error()
	}

	if strings.TrimSpace(req.Side) == "" {
		errors["side"] = "side is required"
	} else if !ValidOrderSide[req.Side] {
		errors["side"] = fmt.Sprintf("invalid side: %s", req.Side)
	}

	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if !validCurrency(req.Currency) {
		errors["currency"] = "currency must be an ISO 4217 code"
	}

	if req.PlacedAt != "" {
		if _, err := ParseTimestamp(req.PlacedAt); err != nil {
			errors["placedAt"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateOrderStatus validates an order status transition request.
// Only the target status shape is checked here; transition legality is a
// business rule enforced by the engine.
func ValidateUpdateOrderStatus(req request.UpdateOrderStatusRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Status) == "" {
		errors["status"] = "status is required"
	} else if !ValidOrderStatus[req.Status] {
		errors["status"] = fmt.Sprintf("invalid status: %s", req.Status)
	}

	if req.FilledAt != nil {
		if _, err := ParseTimestamp(*req.FilledAt); err != nil {
			errors["filledAt"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
