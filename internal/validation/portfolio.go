package validation

import (
	"strings"

	"github.com/racional/portfolio-ledger/internal/api/request"
)

// ValidateCreatePortfolio validates a portfolio creation request.
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.UserID); err != nil {
		errors["userId"] = err.Error()
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 255 {
		errors["name"] = "name must be at most 255 characters"
	}

	if !validCurrency(req.BaseCurrency) {
		errors["baseCurrency"] = "baseCurrency must be an ISO 4217 code"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdatePortfolioInfo validates a portfolio rename request.
func ValidateUpdatePortfolioInfo(req request.UpdatePortfolioInfoRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 255 {
		errors["name"] = "name must be at most 255 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdatePortfolioTotals validates a direct totals overwrite request.
func ValidateUpdatePortfolioTotals(req request.UpdatePortfolioTotalsRequest) error {
	errors := make(map[string]string)

	if req.TotalValue.IsNegative() {
		errors["totalValue"] = "totalValue must be non-negative"
	}
	if req.CashValue.IsNegative() {
		errors["cashValue"] = "cashValue must be non-negative"
	}
	if req.InvestedValue.IsNegative() {
		errors["investedValue"] = "investedValue must be non-negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
