package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
)

// PositionService exposes standalone position operations that do not go
// through order settlement: listing and manual quantity adjustments.
type PositionService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
}

// NewPositionService creates a new PositionService with the provided repository dependencies.
func NewPositionService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
) *PositionService {
	return &PositionService{
		db:            db,
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
	}
}

// AdjustQuantity applies a signed quantity delta to an existing position,
// for corrections outside the order flow. Fails with
// apperrors.ErrPositionNotFound if no position row exists, and with
// apperrors.ErrPositionNegative if the adjustment would drive quantity below
// zero. Portfolio aggregates are untouched; this is a position-only
// correction.
func (s *PositionService) AdjustQuantity(ctx context.Context, portfolioID string, req request.AdjustPositionRequest) (*model.Position, error) {
	var adjusted model.Position

	err := repository.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		positionRepo := s.positionRepo.WithTx(tx)

		position, err := positionRepo.Get(portfolioID, req.StockID)
		if err != nil {
			return err
		}

		next := position.Quantity.Add(req.QuantityDelta)
		if next.IsNegative() {
			return apperrors.ErrPositionNegative
		}

		lastPrice := position.LastPrice
		if req.Price != nil {
			lastPrice = *req.Price
		}
		updatedAt := time.Now()

		if err := positionRepo.UpdateQuantity(ctx, portfolioID, req.StockID, next, lastPrice, updatedAt); err != nil {
			return err
		}

		adjusted = position
		adjusted.Quantity = next
		adjusted.LastPrice = lastPrice
		adjusted.UpdatedAt = updatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &adjusted, nil
}

// ListPositions retrieves a portfolio's positions with stock data, most
// recently updated first.
func (s *PositionService) ListPositions(portfolioID string) ([]model.PositionWithStock, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.positionRepo.ListByPortfolio(portfolioID)
}
