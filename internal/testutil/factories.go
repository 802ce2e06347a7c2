package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

// UserBuilder provides a fluent interface for creating test users.
type UserBuilder struct {
	ID    string
	Email string
	Name  string
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	id := MakeID()
	return &UserBuilder{
		ID:    id,
		Email: id + "@test.local",
		Name:  "Test User",
	}
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	now := time.Now()
	_, err := db.Exec(
		`INSERT INTO "user" (id, email, name, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Email, b.Name, repository.FormatTime(now),
	)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{ID: b.ID, Email: b.Email, Name: b.Name, CreatedAt: now.UTC()}
}

// StockBuilder provides a fluent interface for creating test stocks.
type StockBuilder struct {
	ID       string
	Symbol   string
	Name     string
	Currency string
	Exchange string
}

// NewStock creates a StockBuilder with sensible defaults. Symbols must be
// unique, so the default embeds a fresh ID fragment.
func NewStock() *StockBuilder {
	id := MakeID()
	return &StockBuilder{
		ID:       id,
		Symbol:   "T" + id[:8],
		Name:     "Test Stock",
		Currency: "USD",
		Exchange: "NASDAQ",
	}
}

// WithSymbol sets a custom symbol.
func (b *StockBuilder) WithSymbol(symbol string) *StockBuilder {
	b.Symbol = symbol
	return b
}

// Build creates the stock in the database and returns it.
func (b *StockBuilder) Build(t *testing.T, db *sql.DB) model.Stock {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO stock (id, symbol, name, currency, exchange) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Symbol, b.Name, b.Currency, b.Exchange,
	)
	if err != nil {
		t.Fatalf("Failed to create test stock: %v", err)
	}

	return model.Stock{ID: b.ID, Symbol: b.Symbol, Name: b.Name, Currency: b.Currency, Exchange: b.Exchange}
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	portfolio := testutil.NewPortfolio(user.ID).
//	    WithCash("1000").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID            string
	UserID        string
	Name          string
	BaseCurrency  string
	CashValue     decimal.Decimal
	InvestedValue decimal.Decimal
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
// totalValue is always derived as cash + invested.
func NewPortfolio(userID string) *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:            MakeID(),
		UserID:        userID,
		Name:          "Test Portfolio",
		BaseCurrency:  "USD",
		CashValue:     decimal.Zero,
		InvestedValue: decimal.Zero,
	}
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithCash sets the starting cash balance.
func (b *PortfolioBuilder) WithCash(cash string) *PortfolioBuilder {
	b.CashValue = decimal.RequireFromString(cash)
	return b
}

// WithInvested sets the starting invested value.
func (b *PortfolioBuilder) WithInvested(invested string) *PortfolioBuilder {
	b.InvestedValue = decimal.RequireFromString(invested)
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	now := time.Now()
	total := b.CashValue.Add(b.InvestedValue)

	_, err := db.Exec(
		`INSERT INTO portfolio (id, user_id, name, base_currency, cash_value, total_value, invested_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, b.BaseCurrency,
		b.CashValue.String(), total.String(), b.InvestedValue.String(),
		repository.FormatTime(now),
	)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:            b.ID,
		UserID:        b.UserID,
		Name:          b.Name,
		BaseCurrency:  b.BaseCurrency,
		CashValue:     b.CashValue,
		TotalValue:    total,
		InvestedValue: b.InvestedValue,
		CreatedAt:     now.UTC(),
	}
}

// PositionBuilder provides a fluent interface for creating test positions.
type PositionBuilder struct {
	ID          string
	PortfolioID string
	StockID     string
	Quantity    decimal.Decimal
	AvgPrice    decimal.Decimal
	LastPrice   decimal.Decimal
	Currency    string
}

// NewPosition creates a PositionBuilder with sensible defaults.
func NewPosition(portfolioID, stockID string) *PositionBuilder {
	return &PositionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		StockID:     stockID,
		Quantity:    decimal.NewFromInt(10),
		AvgPrice:    decimal.NewFromInt(50),
		LastPrice:   decimal.NewFromInt(50),
		Currency:    "USD",
	}
}

// WithQuantity sets the held quantity.
func (b *PositionBuilder) WithQuantity(quantity string) *PositionBuilder {
	b.Quantity = decimal.RequireFromString(quantity)
	return b
}

// WithPrices sets avg and last price together.
func (b *PositionBuilder) WithPrices(price string) *PositionBuilder {
	b.AvgPrice = decimal.RequireFromString(price)
	b.LastPrice = b.AvgPrice
	return b
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	now := time.Now()
	_, err := db.Exec(
		`INSERT INTO portfolio_position (id, portfolio_id, stock_id, quantity, avg_price, last_price, currency, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.PortfolioID, b.StockID,
		b.Quantity.String(), b.AvgPrice.String(), b.LastPrice.String(),
		b.Currency, repository.FormatTime(now),
	)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return model.Position{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		StockID:     b.StockID,
		Quantity:    b.Quantity,
		AvgPrice:    b.AvgPrice,
		LastPrice:   b.LastPrice,
		Currency:    b.Currency,
		UpdatedAt:   now.UTC(),
	}
}

// OrderBuilder provides a fluent interface for creating test orders.
type OrderBuilder struct {
	ID          string
	PortfolioID string
	StockID     string
	Side        string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Currency    string
	PlacedAt    time.Time
	Status      string
}

// NewOrder creates an OrderBuilder with sensible defaults (a pending BUY).
func NewOrder(portfolioID, stockID string) *OrderBuilder {
	return &OrderBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		StockID:     stockID,
		Side:        model.SideBuy,
		Quantity:    decimal.NewFromInt(10),
		Price:       decimal.NewFromInt(50),
		Currency:    "USD",
		PlacedAt:    time.Now(),
		Status:      model.StatusPending,
	}
}

// WithSide sets the order side.
func (b *OrderBuilder) WithSide(side string) *OrderBuilder {
	b.Side = side
	return b
}

// WithQuantity sets the order quantity.
func (b *OrderBuilder) WithQuantity(quantity string) *OrderBuilder {
	b.Quantity = decimal.RequireFromString(quantity)
	return b
}

// WithPrice sets the per-unit price.
func (b *OrderBuilder) WithPrice(price string) *OrderBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

// WithStatus sets the order status.
func (b *OrderBuilder) WithStatus(status string) *OrderBuilder {
	b.Status = status
	return b
}

// Build creates the order in the database and returns it.
func (b *OrderBuilder) Build(t *testing.T, db *sql.DB) model.Order {
	t.Helper()

	now := time.Now()
	_, err := db.Exec(
		`INSERT INTO "order" (id, portfolio_id, stock_id, side, quantity, price, currency, placed_at, status, filled_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)`,
		b.ID, b.PortfolioID, b.StockID, b.Side,
		b.Quantity.String(), b.Price.String(), b.Currency,
		repository.FormatTime(b.PlacedAt), b.Status, repository.FormatTime(now),
	)
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	return model.Order{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		StockID:     b.StockID,
		Side:        b.Side,
		Quantity:    b.Quantity,
		Price:       b.Price,
		Currency:    b.Currency,
		PlacedAt:    b.PlacedAt.UTC(),
		Status:      b.Status,
		CreatedAt:   now.UTC(),
	}
}
