package validation

import (
	"strings"

	"github.com/racional/portfolio-ledger/internal/api/request"
)

// ValidateCreateStock validates a stock registration request.
func ValidateCreateStock(req request.CreateStockRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if len(req.Symbol) > 10 {
		errors["symbol"] = "symbol must be at most 10 characters"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if !validCurrency(req.Currency) {
		errors["currency"] = "currency must be an ISO 4217 code"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
