package request

import "github.com/shopspring/decimal"

// CreatePortfolioRequest is the body for creating a portfolio. Balances
// start at zero.
type CreatePortfolioRequest struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	BaseCurrency string `json:"baseCurrency"`
}

// UpdatePortfolioInfoRequest is the body for renaming a portfolio.
type UpdatePortfolioInfoRequest struct {
	Name string `json:"name"`
}

// UpdatePortfolioTotalsRequest is the body for overwriting a portfolio's
// aggregate values directly (administrative correction path).
type UpdatePortfolioTotalsRequest struct {
	TotalValue    decimal.Decimal `json:"totalValue"`
	CashValue     decimal.Decimal `json:"cashValue"`
	InvestedValue decimal.Decimal `json:"investedValue"`
}
