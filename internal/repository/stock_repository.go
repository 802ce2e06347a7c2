package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
)

// StockRepository provides data access methods for the stock table.
type StockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new StockRepository with the provided database connection.
func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

// Insert stores a new stock row.
// Returns apperrors.ErrDuplicateEntry if the symbol is already taken.
func (r *StockRepository) Insert(ctx context.Context, s *model.Stock) error {
	query := `
		INSERT INTO stock (id, symbol, name, currency, exchange)
		VALUES (?, ?, ?, ?, ?)
	`
	var exchange any
	if s.Exchange != "" {
		exchange = s.Exchange
	}
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Symbol, s.Name, s.Currency, exchange)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert stock: %w", err)
	}
	return nil
}

// GetStock retrieves a stock by ID.
// Returns apperrors.ErrStockNotFound if no row exists.
func (r *StockRepository) GetStock(stockID string) (model.Stock, error) {
	query := `SELECT id, symbol, name, currency, exchange FROM stock WHERE id = ?`

	var s model.Stock
	var exchange sql.NullString

	err := r.db.QueryRow(query, stockID).Scan(&s.ID, &s.Symbol, &s.Name, &s.Currency, &exchange)
	if err == sql.ErrNoRows {
		return model.Stock{}, apperrors.ErrStockNotFound
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("failed to query stock table: %w", err)
	}
	if exchange.Valid {
		s.Exchange = exchange.String
	}

	return s, nil
}

// ListStocks retrieves all stocks ordered by symbol.
func (r *StockRepository) ListStocks() ([]model.Stock, error) {
	query := `SELECT id, symbol, name, currency, exchange FROM stock ORDER BY symbol ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock table: %w", err)
	}
	defer rows.Close()

	stocks := []model.Stock{}
	for rows.Next() {
		var s model.Stock
		var exchange sql.NullString

		if err := rows.Scan(&s.ID, &s.Symbol, &s.Name, &s.Currency, &exchange); err != nil {
			return nil, fmt.Errorf("failed to scan stock table results: %w", err)
		}
		if exchange.Valid {
			s.Exchange = exchange.String
		}
		stocks = append(stocks, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock table: %w", err)
	}

	return stocks, nil
}
