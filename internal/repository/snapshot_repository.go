package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/racional/portfolio-ledger/internal/model"
)

// SnapshotRepository provides data access methods for the portfolio_snapshot
// table. Snapshots are unique per (portfolio_id, as_of); writes upsert.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SnapshotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Upsert records a snapshot, overwriting any existing row for the same
// (portfolio_id, as_of) key.
func (r *SnapshotRepository) Upsert(ctx context.Context, s *model.Snapshot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO portfolio_snapshot (id, portfolio_id, as_of, total_value, cash_value, invested_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id, as_of) DO UPDATE SET
			total_value = excluded.total_value,
			cash_value = excluded.cash_value,
			invested_value = excluded.invested_value
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		s.ID,
		s.PortfolioID,
		FormatTime(s.AsOf),
		s.TotalValue.String(),
		s.CashValue.String(),
		s.InvestedValue.String(),
		FormatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio_snapshot: %w", err)
	}
	return nil
}

// ListByPortfolio retrieves a portfolio's snapshots, newest first.
func (r *SnapshotRepository) ListByPortfolio(portfolioID string) ([]model.Snapshot, error) {
	query := `
		SELECT id, portfolio_id, as_of, total_value, cash_value, invested_value, created_at
		FROM portfolio_snapshot
		WHERE portfolio_id = ?
		ORDER BY as_of DESC
	`
	rows, err := r.getQuerier().Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.Snapshot{}
	for rows.Next() {
		var s model.Snapshot
		var asOfStr, totalStr, cashStr, investedStr, createdAtStr string

		err := rows.Scan(
			&s.ID,
			&s.PortfolioID,
			&asOfStr,
			&totalStr,
			&cashStr,
			&investedStr,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_snapshot table results: %w", err)
		}

		if s.AsOf, err = ParseTime(asOfStr); err != nil {
			return nil, err
		}
		if s.TotalValue, err = ParseDecimal(totalStr); err != nil {
			return nil, err
		}
		if s.CashValue, err = ParseDecimal(cashStr); err != nil {
			return nil, err
		}
		if s.InvestedValue, err = ParseDecimal(investedStr); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_snapshot table: %w", err)
	}

	return snapshots, nil
}
