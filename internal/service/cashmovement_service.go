package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
)

// CashMovementService records deposits and withdrawals against a portfolio
// and keeps the portfolio's aggregate values and snapshots consistent with
// every movement.
type CashMovementService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	movementRepo  *repository.CashMovementRepository
	snapshotRepo  *repository.SnapshotRepository
}

// NewCashMovementService creates a new CashMovementService with the provided repository dependencies.
func NewCashMovementService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	movementRepo *repository.CashMovementRepository,
	snapshotRepo *repository.SnapshotRepository,
) *CashMovementService {
	return &CashMovementService{
		db:            db,
		portfolioRepo: portfolioRepo,
		movementRepo:  movementRepo,
		snapshotRepo:  snapshotRepo,
	}
}

// RecordMovement records a DEPOSIT or WITHDRAWAL against a portfolio.
//
// The funds check, the movement insert, the portfolio totals update, and the
// snapshot upsert all run inside one transaction: a rejected withdrawal
// leaves no trace. A withdrawal that would drive the cash balance below zero
// fails with apperrors.ErrInsufficientFunds.
func (s *CashMovementService) RecordMovement(ctx context.Context, portfolioID string, req request.RecordCashMovementRequest) (*model.CashMovement, error) {
	now := time.Now()

	happenedAt, err := parseEventTime(req.HappenedAt, now)
	if err != nil {
		return nil, err
	}

	movement := &model.CashMovement{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		Type:        req.Type,
		Amount:      req.Amount,
		Currency:    req.Currency,
		HappenedAt:  happenedAt,
		Note:        req.Note,
		CreatedAt:   now,
	}

	err = repository.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolioRepo := s.portfolioRepo.WithTx(tx)

		portfolio, err := portfolioRepo.GetPortfolio(portfolioID)
		if err != nil {
			return err
		}

		nextCash := portfolio.CashValue
		switch req.Type {
		case model.MovementDeposit:
			nextCash = nextCash.Add(req.Amount)
		case model.MovementWithdrawal:
			nextCash = nextCash.Sub(req.Amount)
			if nextCash.IsNegative() {
				return apperrors.ErrInsufficientFunds
			}
		}
		nextTotal := nextCash.Add(portfolio.InvestedValue)

		if err := s.movementRepo.WithTx(tx).Insert(ctx, movement); err != nil {
			return err
		}

		if err := portfolioRepo.UpdateTotals(ctx, portfolioID, nextCash, portfolio.InvestedValue, nextTotal); err != nil {
			return err
		}

		return s.snapshotRepo.WithTx(tx).Upsert(ctx, &model.Snapshot{
			PortfolioID:   portfolioID,
			AsOf:          happenedAt,
			TotalValue:    nextTotal,
			CashValue:     nextCash,
			InvestedValue: portfolio.InvestedValue,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// ListMovements retrieves a portfolio's cash movements, newest first.
// A non-positive limit returns all rows.
func (s *CashMovementService) ListMovements(portfolioID string, limit int) ([]model.CashMovement, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.movementRepo.ListByPortfolio(portfolioID, limit)
}
