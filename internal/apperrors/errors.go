// Package apperrors defines the domain failures raised by the ledger engines.
// Each failure carries a stable machine-readable code and a suggested HTTP
// status, so the transport layer can map them without string matching.
package apperrors

import "net/http"

// Error is a typed domain failure. Instances are package-level sentinels and
// compare by identity, so errors.Is works on wrapped values.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Domain entity errors represent missing entities in the system.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = &Error{Code: "PORTFOLIO_NOT_FOUND", Status: http.StatusNotFound, Message: "portfolio not found"}

	// ErrPortfolioPositionNotFound indicates a sell was attempted against a
	// (portfolio, stock) pair with no position row.
	ErrPortfolioPositionNotFound = &Error{Code: "PORTFOLIO_POSITION_NOT_FOUND", Status: http.StatusNotFound, Message: "portfolio position not found"}

	// ErrPositionNotFound indicates a standalone position adjustment targeted
	// a position that does not exist.
	ErrPositionNotFound = &Error{Code: "POSITION_NOT_FOUND", Status: http.StatusNotFound, Message: "position not found"}

	// ErrOrderNotFound indicates that an order with the given ID does not exist.
	ErrOrderNotFound = &Error{Code: "ORDER_NOT_FOUND", Status: http.StatusNotFound, Message: "order not found"}

	// ErrStockNotFound indicates that a stock with the given ID does not exist.
	ErrStockNotFound = &Error{Code: "STOCK_NOT_FOUND", Status: http.StatusNotFound, Message: "stock not found"}

	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = &Error{Code: "USER_NOT_FOUND", Status: http.StatusNotFound, Message: "user not found"}
)

// Business rule errors represent constraint violations. The enclosing storage
// transaction rolls back before any write when one of these is raised.
var (
	// ErrInsufficientFunds indicates a withdrawal or buy would drive the
	// portfolio's cash balance below zero.
	ErrInsufficientFunds = &Error{Code: "INSUFFICIENT_FUNDS", Status: http.StatusBadRequest, Message: "insufficient funds"}

	// ErrInsufficientStockQuantity indicates a sell exceeds the held quantity.
	ErrInsufficientStockQuantity = &Error{Code: "INSUFFICIENT_STOCK_QUANTITY", Status: http.StatusBadRequest, Message: "insufficient stock quantity"}

	// ErrPositionNegative indicates a quantity adjustment would drive a
	// position below zero.
	ErrPositionNegative = &Error{Code: "POSITION_NEGATIVE", Status: http.StatusBadRequest, Message: "position quantity cannot go negative"}

	// ErrInvalidOrderStatus indicates a status transition from a terminal
	// state, or to a status the engine does not accept.
	ErrInvalidOrderStatus = &Error{Code: "INVALID_ORDER_STATUS", Status: http.StatusBadRequest, Message: "invalid order status transition"}

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = &Error{Code: "DUPLICATE_ENTRY", Status: http.StatusConflict, Message: "duplicate entry"}
)
