package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/racional/portfolio-ledger/internal/model"
)

// CashMovementRepository provides data access methods for the cash_movement
// table. Movements are immutable: there is no update or delete.
type CashMovementRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCashMovementRepository creates a new CashMovementRepository with the provided database connection.
func NewCashMovementRepository(db *sql.DB) *CashMovementRepository {
	return &CashMovementRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (r *CashMovementRepository) WithTx(tx *sql.Tx) *CashMovementRepository {
	return &CashMovementRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *CashMovementRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Insert stores a new cash movement row.
func (r *CashMovementRepository) Insert(ctx context.Context, m *model.CashMovement) error {
	query := `
		INSERT INTO cash_movement (id, portfolio_id, type, amount, currency, happened_at, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	var note any
	if m.Note != "" {
		note = m.Note
	}
	_, err := r.getQuerier().ExecContext(ctx, query,
		m.ID,
		m.PortfolioID,
		m.Type,
		m.Amount.String(),
		m.Currency,
		FormatTime(m.HappenedAt),
		note,
		FormatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash_movement: %w", err)
	}
	return nil
}

// ListByPortfolio retrieves a portfolio's cash movements, newest first.
// A non-positive limit returns all rows.
func (r *CashMovementRepository) ListByPortfolio(portfolioID string, limit int) ([]model.CashMovement, error) {
	query := `
		SELECT id, portfolio_id, type, amount, currency, happened_at, note, created_at
		FROM cash_movement
		WHERE portfolio_id = ?
		ORDER BY happened_at DESC
	`
	args := []any{portfolioID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_movement table: %w", err)
	}
	defer rows.Close()

	movements := []model.CashMovement{}
	for rows.Next() {
		var m model.CashMovement
		var amountStr, happenedAtStr, createdAtStr string
		var note sql.NullString

		err := rows.Scan(
			&m.ID,
			&m.PortfolioID,
			&m.Type,
			&amountStr,
			&m.Currency,
			&happenedAtStr,
			&note,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash_movement table results: %w", err)
		}

		if m.Amount, err = ParseDecimal(amountStr); err != nil {
			return nil, err
		}
		if m.HappenedAt, err = ParseTime(happenedAtStr); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		if note.Valid {
			m.Note = note.String
		}

		movements = append(movements, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_movement table: %w", err)
	}

	return movements, nil
}
