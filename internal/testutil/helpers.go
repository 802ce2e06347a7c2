package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/racional/portfolio-ledger/internal/repository"
	"github.com/racional/portfolio-ledger/internal/service"
)

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
func MakeID() string {
	return uuid.New().String()
}

func NewTestCashMovementService(t *testing.T, db *sql.DB) *service.CashMovementService {
	t.Helper()

	return service.NewCashMovementService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewCashMovementRepository(db),
		repository.NewSnapshotRepository(db),
	)
}

func NewTestOrderService(t *testing.T, db *sql.DB) *service.OrderService {
	t.Helper()

	return service.NewOrderService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewPositionRepository(db),
		repository.NewOrderRepository(db),
		repository.NewSnapshotRepository(db),
		repository.NewStockRepository(db),
	)
}

func NewTestPositionService(t *testing.T, db *sql.DB) *service.PositionService {
	t.Helper()

	return service.NewPositionService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewPositionRepository(db),
	)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewPositionRepository(db),
		repository.NewCashMovementRepository(db),
		repository.NewOrderRepository(db),
		repository.NewSnapshotRepository(db),
		repository.NewUserRepository(db),
	)
}

func NewTestSnapshotService(t *testing.T, db *sql.DB) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewSnapshotRepository(db),
	)
}

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()

	return service.NewUserService(repository.NewUserRepository(db))
}

func NewTestStockService(t *testing.T, db *sql.DB) *service.StockService {
	t.Helper()

	return service.NewStockService(repository.NewStockRepository(db))
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}
