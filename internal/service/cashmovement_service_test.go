package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
	"github.com/racional/portfolio-ledger/internal/testutil"
	"github.com/shopspring/decimal"
)

// TestCashMovementService_RecordMovement tests the deposit/withdrawal engine.
//
// WHY: Cash movements mutate three tables at once (movement, portfolio
// totals, snapshot). These tests verify the arithmetic, the insufficient
// funds guard, and that a rejected movement leaves no partial writes.
func TestCashMovementService_RecordMovement(t *testing.T) {
	t.Run("deposit increases cash and total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCashMovementService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)

		movement, err := svc.RecordMovement(context.Background(), portfolio.ID, request.RecordCashMovementRequest{
			Type:       model.MovementDeposit,
			Amount:     decimal.NewFromInt(1000),
			Currency:   "USD",
			HappenedAt: "2026-01-15",
		})
		if err != nil {
			t.Fatalf("RecordMovement() returned unexpected error: %v", err)
		}
		if movement.Type != model.MovementDeposit {
			t.Errorf("Expected type DEPOSIT, got %s", movement.Type)
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("Expected cash 2000, got %s", got.CashValue)
		}
		if !got.TotalValue.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("Expected total 2000, got %s", got.TotalValue)
		}
		if !got.InvestedValue.Equal(decimal.Zero) {
			t.Errorf("Expected invested 0, got %s", got.InvestedValue)
		}
	})

	t.Run("withdrawal decreases cash and total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCashMovementService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)

		_, err := svc.RecordMovement(context.Background(), portfolio.ID, request.RecordCashMovementRequest{
			Type:       model.MovementWithdrawal,
			Amount:     decimal.NewFromInt(400),
			Currency:   "USD",
			HappenedAt: "2026-01-15",
		})
		if err != nil {
			t.Fatalf("RecordMovement() returned unexpected error: %v", err)
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.NewFromInt(600)) {
			t.Errorf("Expected cash 600, got %s", got.CashValue)
		}
		if !got.TotalValue.Equal(decimal.NewFromInt(600)) {
			t.Errorf("Expected total 600, got %s", got.TotalValue)
		}
	})

	t.Run("overdraft withdrawal fails and leaves state unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCashMovementService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)

		_, err := svc.RecordMovement(context.Background(), portfolio.ID, request.RecordCashMovementRequest{
			Type:       model.MovementWithdrawal,
			Amount:     decimal.NewFromInt(2500),
			Currency:   "USD",
			HappenedAt: "2026-01-15",
		})
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
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

		movements, err := svc.ListMovements(portfolio.ID, 0)
		if err != nil {
			t.Fatalf("ListMovements() returned unexpected error: %v", err)
		}
		if len(movements) != 0 {
			t.Errorf("Expected no movement rows after rejection, got %d", len(movements))
		}

		snapshots, err := repository.NewSnapshotRepository(db).ListByPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("ListByPortfolio() returned unexpected error: %v", err)
		}
		if len(snapshots) != 0 {
			t.Errorf("Expected no snapshot rows after rejection, got %d", len(snapshots))
		}
	})

	t.Run("withdrawal to exactly zero succeeds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCashMovementService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)

		_, err := svc.RecordMovement(context.Background(), portfolio.ID, request.RecordCashMovementRequest{
			Type:       model.MovementWithdrawal,
			Amount:     decimal.NewFromInt(1000),
			Currency:   "USD",
			HappenedAt: "2026-01-15",
		})
		if err != nil {
			t.Fatalf("RecordMovement() returned unexpected error: %v", err)
		}

		got, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if !got.CashValue.Equal(decimal.Zero) {
			t.Errorf("Expected cash 0, got %s", got.CashValue)
		}
	})

	t.Run("fails with PORTFOLIO_NOT_FOUND for unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCashMovementService(t, db)

		_, err := svc.RecordMovement(context.Background(), testutil.MakeID(), request.RecordCashMovementRequest{
			Type:       model.MovementDeposit,
			Amount:     decimal.NewFromInt(100),
			Currency:   "USD",
			HappenedAt: "2026-01-15",
		})
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Fatalf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("writes one snapshot per happenedAt and overwrites on reuse", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCashMovementService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)

		for _, amount := range []int64{100, 200} {
			_, err := svc.RecordMovement(context.Background(), portfolio.ID, request.RecordCashMovementRequest{
				Type:       model.MovementDeposit,
				Amount:     decimal.NewFromInt(amount),
				Currency:   "USD",
				HappenedAt: "2026-01-15",
			})
			if err != nil {
				t.Fatalf("RecordMovement() returned unexpected error: %v", err)
			}
		}

		snapshots, err := repository.NewSnapshotRepository(db).ListByPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("ListByPortfolio() returned unexpected error: %v", err)
		}
		if len(snapshots) != 1 {
			t.Fatalf("Expected exactly one snapshot for the shared key, got %d", len(snapshots))
		}
		// Second deposit's totals win: 1000 + 100 + 200
		if !snapshots[0].CashValue.Equal(decimal.NewFromInt(1300)) {
			t.Errorf("Expected snapshot cash 1300, got %s", snapshots[0].CashValue)
		}
		if !snapshots[0].TotalValue.Equal(decimal.NewFromInt(1300)) {
			t.Errorf("Expected snapshot total 1300, got %s", snapshots[0].TotalValue)
		}
	})
}

// TestCashMovementService_ListMovements verifies listing order and the
// portfolio existence check.
func TestCashMovementService_ListMovements(t *testing.T) {
	t.Run("returns movements newest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCashMovementService(t, db)

		user := testutil.NewUser().Build(t, db)
		portfolio := testutil.NewPortfolio(user.ID).WithCash("1000").Build(t, db)

		days := []string{"2026-01-10", "2026-01-12", "2026-01-11"}
		for _, day := range days {
			_, err := svc.RecordMovement(context.Background(), portfolio.ID, request.RecordCashMovementRequest{
				Type:       model.MovementDeposit,
				Amount:     decimal.NewFromInt(10),
				Currency:   "USD",
				HappenedAt: day,
			})
			if err != nil {
				t.Fatalf("RecordMovement() returned unexpected error: %v", err)
			}
		}

		movements, err := svc.ListMovements(portfolio.ID, 0)
		if err != nil {
			t.Fatalf("ListMovements() returned unexpected error: %v", err)
		}
		if len(movements) != 3 {
			t.Fatalf("Expected 3 movements, got %d", len(movements))
		}
		for i := 1; i < len(movements); i++ {
			if movements[i].HappenedAt.After(movements[i-1].HappenedAt) {
				t.Errorf("Movements not sorted newest first at index %d", i)
			}
		}
	})

	t.Run("fails with PORTFOLIO_NOT_FOUND for unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCashMovementService(t, db)

		_, err := svc.ListMovements(testutil.MakeID(), 0)
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Fatalf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}
