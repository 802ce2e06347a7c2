package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// PositionRepository provides data access methods for the portfolio_position
// table, keyed by the unique (portfolio_id, stock_id) pair.
type PositionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (r *PositionRepository) WithTx(tx *sql.Tx) *PositionRepository {
	return &PositionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PositionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Get retrieves the position for a (portfolio, stock) pair.
// Returns apperrors.ErrPositionNotFound if no row exists.
func (r *PositionRepository) Get(portfolioID, stockID string) (model.Position, error) {
	query := `
		SELECT id, portfolio_id, stock_id, quantity, avg_price, last_price, currency, updated_at
		FROM portfolio_position
		WHERE portfolio_id = ? AND stock_id = ?
	`
	var p model.Position
	var quantityStr, avgPriceStr, lastPriceStr, updatedAtStr string

	err := r.getQuerier().QueryRow(query, portfolioID, stockID).Scan(
		&p.ID,
		&p.PortfolioID,
		&p.StockID,
		&quantityStr,
		&avgPriceStr,
		&lastPriceStr,
		&p.Currency,
		&updatedAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to query portfolio_position table: %w", err)
	}

	if p.Quantity, err = ParseDecimal(quantityStr); err != nil {
		return model.Position{}, err
	}
	if p.AvgPrice, err = ParseDecimal(avgPriceStr); err != nil {
		return model.Position{}, err
	}
	if p.LastPrice, err = ParseDecimal(lastPriceStr); err != nil {
		return model.Position{}, err
	}
	if p.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Position{}, err
	}

	return p, nil
}

// Upsert writes a position with absolute field values: it creates the row on
// first use of a (portfolio, stock) pair and overwrites quantity and price
// fields otherwise. Callers compute the next quantity inside the enclosing
// transaction.
func (r *PositionRepository) Upsert(ctx context.Context, p *model.Position) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO portfolio_position (id, portfolio_id, stock_id, quantity, avg_price, last_price, currency, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id, stock_id) DO UPDATE SET
			quantity = excluded.quantity,
			avg_price = excluded.avg_price,
			last_price = excluded.last_price,
			currency = excluded.currency,
			updated_at = excluded.updated_at
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.PortfolioID,
		p.StockID,
		p.Quantity.String(),
		p.AvgPrice.String(),
		p.LastPrice.String(),
		p.Currency,
		FormatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio_position: %w", err)
	}
	return nil
}

// UpdateQuantity overwrites a position's quantity and last price.
func (r *PositionRepository) UpdateQuantity(ctx context.Context, portfolioID, stockID string, quantity, lastPrice decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE portfolio_position
		SET quantity = ?, last_price = ?, updated_at = ?
		WHERE portfolio_id = ? AND stock_id = ?
	`
	result, err := r.getQuerier().ExecContext(ctx, query,
		quantity.String(),
		lastPrice.String(),
		FormatTime(updatedAt),
		portfolioID,
		stockID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio_position: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrPositionNotFound
	}
	return nil
}

// ListByPortfolio retrieves a portfolio's positions with their stock
// reference data, most recently updated first.
func (r *PositionRepository) ListByPortfolio(portfolioID string) ([]model.PositionWithStock, error) {
	query := `
		SELECT p.id, p.portfolio_id, p.stock_id, p.quantity, p.avg_price, p.last_price, p.currency, p.updated_at,
		       s.id, s.symbol, s.name, s.currency, s.exchange
		FROM portfolio_position p
		JOIN stock s ON p.stock_id = s.id
		WHERE p.portfolio_id = ?
		ORDER BY p.updated_at DESC
	`
	rows, err := r.getQuerier().Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_position table: %w", err)
	}
	defer rows.Close()

	positions := []model.PositionWithStock{}
	for rows.Next() {
		var p model.PositionWithStock
		var quantityStr, avgPriceStr, lastPriceStr, updatedAtStr string
		var exchange sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.PortfolioID,
			&p.StockID,
			&quantityStr,
			&avgPriceStr,
			&lastPriceStr,
			&p.Currency,
			&updatedAtStr,
			&p.Stock.ID,
			&p.Stock.Symbol,
			&p.Stock.Name,
			&p.Stock.Currency,
			&exchange,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_position table results: %w", err)
		}

		if p.Quantity, err = ParseDecimal(quantityStr); err != nil {
			return nil, err
		}
		if p.AvgPrice, err = ParseDecimal(avgPriceStr); err != nil {
			return nil, err
		}
		if p.LastPrice, err = ParseDecimal(lastPriceStr); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
			return nil, err
		}
		if exchange.Valid {
			p.Stock.Exchange = exchange.String
		}

		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_position table: %w", err)
	}

	return positions, nil
}
