package validation

import (
	"fmt"
	"strings"

	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/model"
)

// ValidMovementType contains the movement types accepted from clients.
// ORDER_SETTLEMENT and ADJUSTMENT rows are written by the engines, never
// submitted directly.
var ValidMovementType = map[string]bool{
	model.MovementDeposit:    true,
	model.MovementWithdrawal: true,
}

// ValidateRecordCashMovement validates a cash movement request.
//
// Required fields:
//   - type: DEPOSIT or WITHDRAWAL
//   - amount: must be positive (direction is encoded by type, not sign)
//   - currency: ISO 4217 code
//   - happenedAt: RFC3339 timestamp or YYYY-MM-DD date
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateRecordCashMovement(req request.RecordCashMovementRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !ValidMovementType[req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}

	if !validCurrency(req.Currency) {
		errors["currency"] = "currency must be an ISO 4217 code"
	}

	if strings.TrimSpace(req.HappenedAt) == "" {
		errors["happenedAt"] = "happenedAt is required"
	} else if _, err := ParseTimestamp(req.HappenedAt); err != nil {
		errors["happenedAt"] = err.Error()
	}

	if len(req.Note) > 512 {
		errors["note"] = "note must be at most 512 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
