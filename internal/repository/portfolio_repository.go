package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// PortfolioRepository provides data access methods for the portfolio table,
// including the scalar aggregates (cash_value, total_value, invested_value)
// the ledger engines maintain.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Insert stores a new portfolio row.
func (r *PortfolioRepository) Insert(ctx context.Context, p *model.Portfolio) error {
	query := `
		INSERT INTO portfolio (id, user_id, name, base_currency, cash_value, total_value, invested_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.BaseCurrency,
		p.CashValue.String(),
		p.TotalValue.String(),
		p.InvestedValue.String(),
		FormatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}
	return nil
}

// GetPortfolio retrieves a portfolio by ID.
// Returns apperrors.ErrPortfolioNotFound if no row exists.
func (r *PortfolioRepository) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, base_currency, cash_value, total_value, invested_value, created_at
		FROM portfolio
		WHERE id = ?
	`
	row := r.getQuerier().QueryRow(query, portfolioID)

	p, err := scanPortfolio(row)
	if err == sql.ErrNoRows {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}

// ListByUser retrieves all portfolios owned by the given user, newest first.
func (r *PortfolioRepository) ListByUser(userID string) ([]model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, base_currency, cash_value, total_value, invested_value, created_at
		FROM portfolio
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	return r.listPortfolios(query, userID)
}

// ListAll retrieves every portfolio. Used by the snapshot sweep.
func (r *PortfolioRepository) ListAll() ([]model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, base_currency, cash_value, total_value, invested_value, created_at
		FROM portfolio
		ORDER BY created_at ASC
	`
	return r.listPortfolios(query)
}

func (r *PortfolioRepository) listPortfolios(query string, args ...any) ([]model.Portfolio, error) {
	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// UpdateTotals overwrites a portfolio's aggregate value fields.
// Callers are responsible for keeping total = cash + invested.
func (r *PortfolioRepository) UpdateTotals(ctx context.Context, portfolioID string, cash, invested, total decimal.Decimal) error {
	query := `
		UPDATE portfolio
		SET cash_value = ?, invested_value = ?, total_value = ?
		WHERE id = ?
	`
	result, err := r.getQuerier().ExecContext(ctx, query,
		cash.String(),
		invested.String(),
		total.String(),
		portfolioID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio totals: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}

// UpdateName renames a portfolio.
func (r *PortfolioRepository) UpdateName(ctx context.Context, portfolioID, name string) error {
	result, err := r.getQuerier().ExecContext(ctx, `UPDATE portfolio SET name = ? WHERE id = ?`, name, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to update portfolio name: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan path.
type scanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(s scanner) (model.Portfolio, error) {
	var p model.Portfolio
	var cashStr, totalStr, investedStr, createdAtStr string

	err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.BaseCurrency,
		&cashStr,
		&totalStr,
		&investedStr,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Portfolio{}, err
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to scan portfolio table results: %w", err)
	}

	if p.CashValue, err = ParseDecimal(cashStr); err != nil {
		return model.Portfolio{}, err
	}
	if p.TotalValue, err = ParseDecimal(totalStr); err != nil {
		return model.Portfolio{}, err
	}
	if p.InvestedValue, err = ParseDecimal(investedStr); err != nil {
		return model.Portfolio{}, err
	}
	if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}
