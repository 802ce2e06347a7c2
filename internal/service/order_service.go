package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

// OrderService places buy/sell orders against a portfolio and settles them.
// There is exactly one settlement routine: an order placed without the
// pending flag settles immediately, and a PENDING order transitioned to
// FILLED runs the same routine. Settlement updates cash/invested aggregates,
// the position, and a snapshot, all inside one transaction.
type OrderService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
	orderRepo     *repository.OrderRepository
	snapshotRepo  *repository.SnapshotRepository
	stockRepo     *repository.StockRepository
}

// NewOrderService creates a new OrderService with the provided repository dependencies.
func NewOrderService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
	orderRepo *repository.OrderRepository,
	snapshotRepo *repository.SnapshotRepository,
	stockRepo *repository.StockRepository,
) *OrderService {
	return &OrderService{
		db:            db,
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
		orderRepo:     orderRepo,
		snapshotRepo:  snapshotRepo,
		stockRepo:     stockRepo,
	}
}

// PlaceOrder creates an order against a portfolio. By default the order is
// settled immediately: it is inserted as FILLED and all ledger effects apply
// in the same transaction. With req.Pending the order is created as PENDING
// with no effects; UpdateOrderStatus fills or cancels it later.
func (s *OrderService) PlaceOrder(ctx context.Context, portfolioID string, req request.PlaceOrderRequest) (*model.Order, error) {
	now := time.Now()

	if _, err := s.stockRepo.GetStock(req.StockID); err != nil {
		return nil, err
	}

	placedAt, err := parseEventTime(req.PlacedAt, now)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		StockID:     req.StockID,
		Side:        req.Side,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Currency:    req.Currency,
		PlacedAt:    placedAt,
		Status:      model.StatusPending,
		CreatedAt:   now,
	}

	if req.Pending {
		// A pending order still requires the portfolio to exist.
		if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
			return nil, err
		}
		if err := s.orderRepo.Insert(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	order.Status = model.StatusFilled
	order.FilledAt = &placedAt

	err = repository.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.settle(ctx, tx, order, placedAt); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).Insert(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateOrderStatus transitions an order's status. Only PENDING orders may
// transition: PENDING to FILLED settles the order with full ledger effects,
// PENDING to CANCELED is a pure label change. FILLED and CANCELED are
// terminal; any transition out of them fails with
// apperrors.ErrInvalidOrderStatus.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, req request.UpdateOrderStatusRequest) (*model.Order, error) {
	if req.Status != model.StatusCanceled && req.Status != model.StatusFilled {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	var filledAt time.Time
	if req.Status == model.StatusFilled {
		filledAtStr := ""
		if req.FilledAt != nil {
			filledAtStr = *req.FilledAt
		}
		parsed, err := parseEventTime(filledAtStr, time.Now())
		if err != nil {
			return nil, err
		}
		filledAt = parsed
	}

	// The PENDING gate reads inside the transaction, after the write lock
	// is taken. Two concurrent transitions of the same order serialize
	// here and the loser sees the terminal status.
	var order model.Order
	err := repository.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		orderRepo := s.orderRepo.WithTx(tx)

		var err error
		order, err = orderRepo.GetOrder(orderID)
		if err != nil {
			return err
		}
		if order.Status != model.StatusPending {
			return apperrors.ErrInvalidOrderStatus
		}

		if req.Status == model.StatusCanceled {
			if err := orderRepo.UpdateStatus(ctx, orderID, model.StatusCanceled, nil); err != nil {
				return err
			}
			order.Status = model.StatusCanceled
			return nil
		}

		if err := s.settle(ctx, tx, &order, filledAt); err != nil {
			return err
		}
		if err := orderRepo.UpdateStatus(ctx, orderID, model.StatusFilled, &filledAt); err != nil {
			return err
		}
		order.Status = model.StatusFilled
		order.FilledAt = &filledAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// settle applies an order's ledger effects inside the given transaction:
// funds/holdings checks, portfolio cash/invested/total update, position
// upsert, and snapshot upsert keyed by the settlement timestamp. The order
// row itself is written by the caller in the same transaction.
//
// Rules applied here:
//   - BUY fails with INSUFFICIENT_FUNDS when cost exceeds the cash balance.
//   - SELL fails with PORTFOLIO_POSITION_NOT_FOUND when no position exists,
//     and with INSUFFICIENT_STOCK_QUANTITY on oversell.
//   - totalValue = cashValue + investedValue after the update.
//   - avgPrice and lastPrice are overwritten with the fill price.
func (s *OrderService) settle(ctx context.Context, tx *sql.Tx, order *model.Order, effectiveAt time.Time) error {
	portfolioRepo := s.portfolioRepo.WithTx(tx)
	positionRepo := s.positionRepo.WithTx(tx)

	portfolio, err := portfolioRepo.GetPortfolio(order.PortfolioID)
	if err != nil {
		return err
	}

	cost := order.Quantity.Mul(order.Price)

	var nextCash, nextInvested, nextQuantity decimal.Decimal
	var positionID string

	switch order.Side {
	case model.SideBuy:
		if portfolio.CashValue.LessThan(cost) {
			return apperrors.ErrInsufficientFunds
		}
		nextCash = portfolio.CashValue.Sub(cost)
		nextInvested = portfolio.InvestedValue.Add(cost)

		position, err := positionRepo.Get(order.PortfolioID, order.StockID)
		switch {
		case errors.Is(err, apperrors.ErrPositionNotFound):
			nextQuantity = order.Quantity
		case err != nil:
			return err
		default:
			positionID = position.ID
			nextQuantity = position.Quantity.Add(order.Quantity)
		}

	case model.SideSell:
		position, err := positionRepo.Get(order.PortfolioID, order.StockID)
		if errors.Is(err, apperrors.ErrPositionNotFound) {
			return apperrors.ErrPortfolioPositionNotFound
		}
		if err != nil {
			return err
		}
		if position.Quantity.LessThan(order.Quantity) {
			return apperrors.ErrInsufficientStockQuantity
		}
		positionID = position.ID
		nextQuantity = position.Quantity.Sub(order.Quantity)
		nextCash = portfolio.CashValue.Add(cost)
		nextInvested = portfolio.InvestedValue.Sub(cost)

	default:
		// Validation rejects unknown sides at the API boundary; a row
		// that reaches here with one must not zero the aggregates.
		return fmt.Errorf("unknown order side: %s", order.Side)
	}

	nextTotal := nextCash.Add(nextInvested)

	if err := portfolioRepo.UpdateTotals(ctx, order.PortfolioID, nextCash, nextInvested, nextTotal); err != nil {
		return err
	}

	err = positionRepo.Upsert(ctx, &model.Position{
		ID:          positionID,
		PortfolioID: order.PortfolioID,
		StockID:     order.StockID,
		Quantity:    nextQuantity,
		AvgPrice:    order.Price,
		LastPrice:   order.Price,
		Currency:    order.Currency,
		UpdatedAt:   effectiveAt,
	})
	if err != nil {
		return err
	}

	return s.snapshotRepo.WithTx(tx).Upsert(ctx, &model.Snapshot{
		PortfolioID:   order.PortfolioID,
		AsOf:          effectiveAt,
		TotalValue:    nextTotal,
		CashValue:     nextCash,
		InvestedValue: nextInvested,
		CreatedAt:     time.Now(),
	})
}

// GetOrder retrieves a single order by ID.
func (s *OrderService) GetOrder(orderID string) (model.Order, error) {
	return s.orderRepo.GetOrder(orderID)
}

// ListOrders retrieves a portfolio's orders with stock data, newest first.
// A non-positive limit returns all rows.
func (s *OrderService) ListOrders(portfolioID string, limit int) ([]model.OrderWithStock, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListByPortfolio(portfolioID, limit)
}
