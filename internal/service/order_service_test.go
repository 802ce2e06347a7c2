package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
	"github.com/racional/portfolio-ledger/internal/testutil"
	"github.com/shopspring/decimal"
)

// TestOrderService_PlaceOrder tests immediate order settlement.
//
// WHY: Settlement is the most invariant-heavy operation in the system: it
// moves cash between the cash and invested aggregates, upserts the position,
// and writes a snapshot, all atomically. These tests cover the funds and
// holdings guards and verify no partial writes survive a rejection.
func TestOrderService_PlaceOrder(t *testing.T) {
	t.Run("buy moves cash into invested and creates position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)

		order, err := svc.PlaceOrder(context.Background(), portfolio.ID, request.PlaceOrderRequest{
			StockID:  stock.ID,
			Side:     model.SideBuy,
			Quantity: decimal.NewFromInt(10),
			Price:    decimal.NewFromInt(50),
			Currency: "USD",
		})
		if err != nil {
			t.Fatalf("PlaceOrder() returned unexpected error: %v", err)
		}
		if order.Status != model.StatusFilled {
			t.Errorf("Expected status FILLED, got %s", order.Status)
		}
		if order.FilledAt == nil {
			t.Error("Expected filledAt to be set on immediate settlement")
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected cash 500, got %s", got.CashValue)
		}
		if !got.InvestedValue.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected invested 500, got %s", got.InvestedValue)
		}
		if !got.TotalValue.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected total 1000, got %s", got.TotalValue)
		}

		position, err := repository.NewPositionRepository(db).Get(portfolio.ID, stock.ID)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if !position.Quantity.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected quantity 10, got %s", position.Quantity)
		}
		if !position.AvgPrice.Equal(decimal.NewFromInt(50)) {
			t.Errorf("Expected avgPrice 50, got %s", position.AvgPrice)
		}
	})

	t.Run("unaffordable buy fails and writes nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("100").Build(t, db)
		stock := testutil.NewStock().Build(t, db)

		_, err := svc.PlaceOrder(context.Background(), portfolio.ID, request.PlaceOrderRequest{
			StockID:  stock.ID,
			Side:     model.SideBuy,
			Quantity: decimal.NewFromInt(10),
			Price:    decimal.NewFromInt(50),
			Currency: "USD",
		})
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected cash unchanged at 100, got %s", got.CashValue)
		}

		if _, err := repository.NewPositionRepository(db).Get(portfolio.ID, stock.ID); !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected no position row, got %v", err)
		}

		orders, err := repository.NewOrderRepository(db).ListByPortfolio(portfolio.ID, 0)
		if err != nil {
			t.Fatalf("ListByPortfolio() returned unexpected error: %v", err)
		}
		if len(orders) != 0 {
			t.Errorf("Expected no order rows after rejection, got %d", len(orders))
		}

		snapshots, err := repository.NewSnapshotRepository(db).ListByPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("ListByPortfolio() returned unexpected error: %v", err)
		}
		if len(snapshots) != 0 {
			t.Errorf("Expected no snapshot rows after rejection, got %d", len(snapshots))
		}
	})

	t.Run("sell without position fails with PORTFOLIO_POSITION_NOT_FOUND", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)

		_, err := svc.PlaceOrder(context.Background(), portfolio.ID, request.PlaceOrderRequest{
			StockID:  stock.ID,
			Side:     model.SideSell,
			Quantity: decimal.NewFromInt(5),
			Price:    decimal.NewFromInt(50),
			Currency: "USD",
		})
		if !errors.Is(err, apperrors.ErrPortfolioPositionNotFound) {
			t.Fatalf("Expected ErrPortfolioPositionNotFound, got %v", err)
		}
	})

	t.Run("oversell fails with INSUFFICIENT_STOCK_QUANTITY and leaves position unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("500").WithInvested("500").Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		testutil.NewPosition(portfolio.ID, stock.ID).WithQuantity("10").Build(t, db)

		_, err := svc.PlaceOrder(context.Background(), portfolio.ID, request.PlaceOrderRequest{
			StockID:  stock.ID,
			Side:     model.SideSell,
			Quantity: decimal.NewFromInt(15),
			Price:    decimal.NewFromInt(50),
			Currency: "USD",
		})
		if !errors.Is(err, apperrors.ErrInsufficientStockQuantity) {
			t.Fatalf("Expected ErrInsufficientStockQuantity, got %v", err)
		}

		position, err := repository.NewPositionRepository(db).Get(portfolio.ID, stock.ID)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if !position.Quantity.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected quantity unchanged at 10, got %s", position.Quantity)
		}
	})

	t.Run("buy then sell end to end", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)

		// BUY 10 @ 50
		_, err := svc.PlaceOrder(context.Background(), portfolio.ID, request.PlaceOrderRequest{
			StockID:  stock.ID,
			Side:     model.SideBuy,
			Quantity: decimal.NewFromInt(10),
			Price:    decimal.NewFromInt(50),
			Currency: "USD",
			PlacedAt: "2026-02-01",
		})
		if err != nil {
			t.Fatalf("PlaceOrder(BUY) returned unexpected error: %v", err)
		}

		// SELL 4 @ 60
		_, err = svc.PlaceOrder(context.Background(), portfolio.ID, request.PlaceOrderRequest{
			StockID:  stock.ID,
			Side:     model.SideSell,
			Quantity: decimal.NewFromInt(4),
			Price:    decimal.NewFromInt(60),
			Currency: "USD",
			PlacedAt: "2026-02-02",
		})
		if err != nil {
			t.Fatalf("PlaceOrder(SELL) returned unexpected error: %v", err)
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(740)) {
			t.Errorf("Expected cash 740, got %s", got.CashValue)
		}
		if !got.InvestedValue.Equal(decimal.NewFromInt(260)) {
			t.Errorf("Expected invested 260, got %s", got.InvestedValue)
		}
		if !got.TotalValue.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected total 1000, got %s", got.TotalValue)
		}

		position, err := repository.NewPositionRepository(db).Get(portfolio.ID, stock.ID)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if !position.Quantity.Equal(decimal.NewFromInt(6)) {
			t.Errorf("Expected quantity 6, got %s", position.Quantity)
		}
		if !position.LastPrice.Equal(decimal.NewFromInt(60)) {
			t.Errorf("Expected lastPrice 60, got %s", position.LastPrice)
		}

		snapshots, err := repository.NewSnapshotRepository(db).ListByPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("ListByPortfolio() returned unexpected error: %v", err)
		}
		if len(snapshots) != 2 {
			t.Errorf("Expected 2 snapshots (one per fill day), got %d", len(snapshots))
		}
	})

	t.Run("pending order has no ledger effects", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)

		order, err := svc.PlaceOrder(context.Background(), portfolio.ID, request.PlaceOrderRequest{
			StockID:  stock.ID,
			Side:     model.SideBuy,
			Quantity: decimal.NewFromInt(10),
			Price:    decimal.NewFromInt(50),
			Currency: "USD",
			Pending:  true,
		})
		if err != nil {
			t.Fatalf("PlaceOrder() returned unexpected error: %v", err)
		}
		if order.Status != model.StatusPending {
			t.Errorf("Expected status PENDING, got %s", order.Status)
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected cash unchanged at 1000, got %s", got.CashValue)
		}
		if _, err := repository.NewPositionRepository(db).Get(portfolio.ID, stock.ID); !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected no position row for pending order, got %v", err)
		}
	})

	t.Run("fails with STOCK_NOT_FOUND for unknown stock", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)

		_, err := svc.PlaceOrder(context.Background(), portfolio.ID, request.PlaceOrderRequest{
			StockID:  testutil.MakeID(),
			Side:     model.SideBuy,
			Quantity: decimal.NewFromInt(1),
			Price:    decimal.NewFromInt(1),
			Currency: "USD",
		})
		if !errors.Is(err, apperrors.ErrStockNotFound) {
			t.Fatalf("Expected ErrStockNotFound, got %v", err)
		}
	})
}

// TestOrderService_UpdateOrderStatus tests the pending order lifecycle.
//
// WHY: Filling a pending order must apply exactly the same effects as
// immediate settlement, cancellation must apply none, and terminal states
// must stay terminal.
func TestOrderService_UpdateOrderStatus(t *testing.T) {
	t.Run("filling a pending order applies full settlement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		pending := testutil.NewOrder(portfolio.ID, stock.ID).
			WithQuantity("10").
			WithPrice("50").
			Build(t, db)

		filled, err := svc.UpdateOrderStatus(context.Background(), pending.ID, request.UpdateOrderStatusRequest{
			Status: model.StatusFilled,
		})
		if err != nil {
			t.Fatalf("UpdateOrderStatus() returned unexpected error: %v", err)
		}
		if filled.Status != model.StatusFilled {
			t.Errorf("Expected status FILLED, got %s", filled.Status)
		}
		if filled.FilledAt == nil {
			t.Error("Expected filledAt to be set")
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected cash 500, got %s", got.CashValue)
		}
		if !got.InvestedValue.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected invested 500, got %s", got.InvestedValue)
		}

		position, err := repository.NewPositionRepository(db).Get(portfolio.ID, stock.ID)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if !position.Quantity.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected quantity 10, got %s", position.Quantity)
		}
	})

	t.Run("canceling a pending order has no ledger effects", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		pending := testutil.NewOrder(portfolio.ID, stock.ID).Build(t, db)

		canceled, err := svc.UpdateOrderStatus(context.Background(), pending.ID, request.UpdateOrderStatusRequest{
			Status: model.StatusCanceled,
		})
		if err != nil {
			t.Fatalf("UpdateOrderStatus() returned unexpected error: %v", err)
		}
		if canceled.Status != model.StatusCanceled {
			t.Errorf("Expected status CANCELED, got %s", canceled.Status)
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected cash unchanged at 1000, got %s", got.CashValue)
		}
	})

	t.Run("unaffordable fill fails and order stays pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("100").Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		pending := testutil.NewOrder(portfolio.ID, stock.ID).
			WithQuantity("10").
			WithPrice("50").
			Build(t, db)

		_, err := svc.UpdateOrderStatus(context.Background(), pending.ID, request.UpdateOrderStatusRequest{
			Status: model.StatusFilled,
		})
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}

		order, err := svc.GetOrder(pending.ID)
		if err != nil {
			t.Fatalf("GetOrder() returned unexpected error: %v", err)
		}
		if order.Status != model.StatusPending {
			t.Errorf("Expected order to stay PENDING, got %s", order.Status)
		}
	})

	t.Run("concurrent fills of the same order settle exactly once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		pending := testutil.NewOrder(portfolio.ID, stock.ID).
			WithQuantity("10").
			WithPrice("50").
			Build(t, db)

		const attempts = 8
		errs := make(chan error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.UpdateOrderStatus(context.Background(), pending.ID, request.UpdateOrderStatusRequest{
					Status: model.StatusFilled,
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		filledCount, rejectedCount := 0, 0
		for err := range errs {
			switch {
			case err == nil:
				filledCount++
			case errors.Is(err, apperrors.ErrInvalidOrderStatus):
				rejectedCount++
			default:
				t.Errorf("Unexpected error from concurrent fill: %v", err)
			}
		}
		if filledCount != 1 {
			t.Errorf("Expected exactly one fill to succeed, got %d", filledCount)
		}
		if rejectedCount != attempts-1 {
			t.Errorf("Expected %d fills rejected as non-pending, got %d", attempts-1, rejectedCount)
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected cash debited once to 500, got %s", got.CashValue)
		}
		if !got.InvestedValue.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected invested credited once to 500, got %s", got.InvestedValue)
		}

		position, err := repository.NewPositionRepository(db).Get(portfolio.ID, stock.ID)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if !position.Quantity.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected quantity credited once to 10, got %s", position.Quantity)
		}
	})

	t.Run("unknown side stored on the order fails without zeroing aggregates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		pending := testutil.NewOrder(portfolio.ID, stock.ID).
			WithSide("SHORT").
			Build(t, db)

		_, err := svc.UpdateOrderStatus(context.Background(), pending.ID, request.UpdateOrderStatusRequest{
			Status: model.StatusFilled,
		})
		if err == nil {
			t.Fatal("Expected an error filling an order with an unknown side")
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected cash unchanged at 1000, got %s", got.CashValue)
		}
		if !got.TotalValue.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected total unchanged at 1000, got %s", got.TotalValue)
		}

		order, err := svc.GetOrder(pending.ID)
		if err != nil {
			t.Fatalf("GetOrder() returned unexpected error: %v", err)
		}
		if order.Status != model.StatusPending {
			t.Errorf("Expected order to stay PENDING, got %s", order.Status)
		}
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		canceled := testutil.NewOrder(portfolio.ID, stock.ID).
			WithStatus(model.StatusCanceled).
			Build(t, db)

		_, err := svc.UpdateOrderStatus(context.Background(), canceled.ID, request.UpdateOrderStatusRequest{
			Status: model.StatusFilled,
		})
		if !errors.Is(err, apperrors.ErrInvalidOrderStatus) {
			t.Fatalf("Expected ErrInvalidOrderStatus, got %v", err)
		}
	})

	t.Run("fails with ORDER_NOT_FOUND for unknown order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestOrderService(t, db)

		_, err := svc.UpdateOrderStatus(context.Background(), testutil.MakeID(), request.UpdateOrderStatusRequest{
			Status: model.StatusCanceled,
		})
		if !errors.Is(err, apperrors.ErrOrderNotFound) {
			t.Fatalf("Expected ErrOrderNotFound, got %v", err)
		}
	})
}
