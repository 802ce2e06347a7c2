package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
)

// OrderRepository provides data access methods for the order table.
type OrderRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewOrderRepository creates a new OrderRepository with the provided database connection.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (r *OrderRepository) WithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *OrderRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Insert stores a new order row.
func (r *OrderRepository) Insert(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO "order" (id, portfolio_id, stock_id, side, quantity, price, currency, placed_at, status, filled_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var filledAt any
	if o.FilledAt != nil {
		filledAt = FormatTime(*o.FilledAt)
	}
	_, err := r.getQuerier().ExecContext(ctx, query,
		o.ID,
		o.PortfolioID,
		o.StockID,
		o.Side,
		o.Quantity.String(),
		o.Price.String(),
		o.Currency,
		FormatTime(o.PlacedAt),
		o.Status,
		filledAt,
		FormatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by ID.
// Returns apperrors.ErrOrderNotFound if no row exists.
func (r *OrderRepository) GetOrder(orderID string) (model.Order, error) {
	query := `
		SELECT id, portfolio_id, stock_id, side, quantity, price, currency, placed_at, status, filled_at, created_at
		FROM "order"
		WHERE id = ?
	`
	var o model.Order
	var quantityStr, priceStr, placedAtStr, createdAtStr string
	var filledAtStr sql.NullString

	err := r.getQuerier().QueryRow(query, orderID).Scan(
		&o.ID,
		&o.PortfolioID,
		&o.StockID,
		&o.Side,
		&quantityStr,
		&priceStr,
		&o.Currency,
		&placedAtStr,
		&o.Status,
		&filledAtStr,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Order{}, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to query order table: %w", err)
	}

	if o.Quantity, err = ParseDecimal(quantityStr); err != nil {
		return model.Order{}, err
	}
	if o.Price, err = ParseDecimal(priceStr); err != nil {
		return model.Order{}, err
	}
	if o.PlacedAt, err = ParseTime(placedAtStr); err != nil {
		return model.Order{}, err
	}
	if o.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Order{}, err
	}
	if filledAtStr.Valid {
		filledAt, err := ParseTime(filledAtStr.String)
		if err != nil {
			return model.Order{}, err
		}
		o.FilledAt = &filledAt
	}

	return o, nil
}

// UpdateStatus overwrites an order's status and filled_at fields.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, status string, filledAt *time.Time) error {
	query := `UPDATE "order" SET status = ?, filled_at = ? WHERE id = ?`
	var filledAtVal any
	if filledAt != nil {
		filledAtVal = FormatTime(*filledAt)
	}
	result, err := r.getQuerier().ExecContext(ctx, query, status, filledAtVal, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrOrderNotFound
	}
	return nil
}

// ListByPortfolio retrieves a portfolio's orders with their stock reference
// data, newest first. A non-positive limit returns all rows.
func (r *OrderRepository) ListByPortfolio(portfolioID string, limit int) ([]model.OrderWithStock, error) {
	query := `
		SELECT o.id, o.portfolio_id, o.stock_id, o.side, o.quantity, o.price, o.currency, o.placed_at, o.status, o.filled_at, o.created_at,
		       s.id, s.symbol, s.name, s.currency, s.exchange
		FROM "order" o
		JOIN stock s ON o.stock_id = s.id
		WHERE o.portfolio_id = ?
		ORDER BY o.placed_at DESC
	`
	args := []any{portfolioID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order table: %w", err)
	}
	defer rows.Close()

	orders := []model.OrderWithStock{}
	for rows.Next() {
		var o model.OrderWithStock
		var quantityStr, priceStr, placedAtStr, createdAtStr string
		var filledAtStr, exchange sql.NullString

		err := rows.Scan(
			&o.ID,
			&o.PortfolioID,
			&o.StockID,
			&o.Side,
			&quantityStr,
			&priceStr,
			&o.Currency,
			&placedAtStr,
			&o.Status,
			&filledAtStr,
			&createdAtStr,
			&o.Stock.ID,
			&o.Stock.Symbol,
			&o.Stock.Name,
			&o.Stock.Currency,
			&exchange,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order table results: %w", err)
		}

		if o.Quantity, err = ParseDecimal(quantityStr); err != nil {
			return nil, err
		}
		if o.Price, err = ParseDecimal(priceStr); err != nil {
			return nil, err
		}
		if o.PlacedAt, err = ParseTime(placedAtStr); err != nil {
			return nil, err
		}
		if o.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		if filledAtStr.Valid {
			filledAt, err := ParseTime(filledAtStr.String)
			if err != nil {
				return nil, err
			}
			o.FilledAt = &filledAt
		}
		if exchange.Valid {
			o.Stock.Exchange = exchange.String
		}

		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order table: %w", err)
	}

	return orders, nil
}
