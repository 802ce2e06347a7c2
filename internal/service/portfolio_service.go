package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
	"github.com/racional/portfolio-ledger/internal/validation"
	"github.com/shopspring/decimal"
)

// latestActionsLimit bounds the activity feed per collection.
const latestActionsLimit = 5

// PortfolioService handles portfolio lifecycle and read operations.
type PortfolioService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
	movementRepo  *repository.CashMovementRepository
	orderRepo     *repository.OrderRepository
	snapshotRepo  *repository.SnapshotRepository
	userRepo      *repository.UserRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
	movementRepo *repository.CashMovementRepository,
	orderRepo *repository.OrderRepository,
	snapshotRepo *repository.SnapshotRepository,
	userRepo *repository.UserRepository,
) *PortfolioService {
	return &PortfolioService{
		db:            db,
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
		movementRepo:  movementRepo,
		orderRepo:     orderRepo,
		snapshotRepo:  snapshotRepo,
		userRepo:      userRepo,
	}
}

// CreatePortfolio creates a portfolio for an existing user. All aggregate
// values start at zero.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (*model.Portfolio, error) {
	if _, err := s.userRepo.GetUser(req.UserID); err != nil {
		return nil, err
	}

	portfolio := &model.Portfolio{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Name:          req.Name,
		BaseCurrency:  req.BaseCurrency,
		CashValue:     decimal.Zero,
		TotalValue:    decimal.Zero,
		InvestedValue: decimal.Zero,
		CreatedAt:     time.Now(),
	}

	if err := s.portfolioRepo.Insert(ctx, portfolio); err != nil {
		return nil, err
	}

	return portfolio, nil
}

// GetPortfolio retrieves a portfolio's aggregate values.
func (s *PortfolioService) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolio(portfolioID)
}

// GetPortfolioDetail retrieves a portfolio with all its child collections:
// positions, cash movements, orders, and snapshots.
func (s *PortfolioService) GetPortfolioDetail(portfolioID string) (*model.PortfolioDetail, error) {
	portfolio, err := s.portfolioRepo.GetPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}

	positions, err := s.positionRepo.ListByPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.ListByPortfolio(portfolioID, 0)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListByPortfolio(portfolioID, 0)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.snapshotRepo.ListByPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}

	return &model.PortfolioDetail{
		Portfolio:     portfolio,
		Positions:     positions,
		CashMovements: movements,
		Orders:        orders,
		Snapshots:     snapshots,
	}, nil
}

// ListByUser retrieves all portfolios owned by a user, newest first.
func (s *PortfolioService) ListByUser(userID string) ([]model.Portfolio, error) {
	if _, err := s.userRepo.GetUser(userID); err != nil {
		return nil, err
	}
	return s.portfolioRepo.ListByUser(userID)
}

// UpdateInfo renames a portfolio.
func (s *PortfolioService) UpdateInfo(ctx context.Context, portfolioID string, req request.UpdatePortfolioInfoRequest) (model.Portfolio, error) {
	if err := s.portfolioRepo.UpdateName(ctx, portfolioID, req.Name); err != nil {
		return model.Portfolio{}, err
	}
	return s.portfolioRepo.GetPortfolio(portfolioID)
}

// UpdateTotals overwrites a portfolio's aggregate values directly. This is
// the administrative correction path; the supplied values must satisfy
// totalValue = cashValue + investedValue.
func (s *PortfolioService) UpdateTotals(ctx context.Context, portfolioID string, req request.UpdatePortfolioTotalsRequest) (model.Portfolio, error) {
	if !req.TotalValue.Equal(req.CashValue.Add(req.InvestedValue)) {
		return model.Portfolio{}, &validation.Error{Fields: map[string]string{
			"totalValue": "totalValue must equal cashValue + investedValue",
		}}
	}

	if err := s.portfolioRepo.UpdateTotals(ctx, portfolioID, req.CashValue, req.InvestedValue, req.TotalValue); err != nil {
		return model.Portfolio{}, err
	}
	return s.portfolioRepo.GetPortfolio(portfolioID)
}

// LatestActions retrieves a portfolio's most recent orders and cash
// movements for the activity feed.
func (s *PortfolioService) LatestActions(portfolioID string) (*model.LatestActions, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByPortfolio(portfolioID, latestActionsLimit)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.ListByPortfolio(portfolioID, latestActionsLimit)
	if err != nil {
		return nil, err
	}

	return &model.LatestActions{
		Orders:        orders,
		CashMovements: movements,
	}, nil
}
