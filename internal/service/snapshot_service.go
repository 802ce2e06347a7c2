package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
	"golang.org/x/sync/errgroup"
)

// captureConcurrency bounds the snapshot sweep fan-out. sqlite serializes
// writers anyway; the bound keeps transaction queueing short.
const captureConcurrency = 4

// SnapshotService serves snapshot history and runs the periodic sweep that
// captures every portfolio's current totals.
type SnapshotService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	snapshotRepo  *repository.SnapshotRepository
}

// NewSnapshotService creates a new SnapshotService with the provided repository dependencies.
func NewSnapshotService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	snapshotRepo *repository.SnapshotRepository,
) *SnapshotService {
	return &SnapshotService{
		db:            db,
		portfolioRepo: portfolioRepo,
		snapshotRepo:  snapshotRepo,
	}
}

// ListSnapshots retrieves a portfolio's snapshots, newest first.
func (s *SnapshotService) ListSnapshots(portfolioID string) ([]model.Snapshot, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.ListByPortfolio(portfolioID)
}

// CaptureAll records a snapshot of every portfolio's current totals at asOf.
// Each capture runs in its own transaction, so a failure on one portfolio
// does not roll back the others; the first error is returned after the
// group drains.
func (s *SnapshotService) CaptureAll(ctx context.Context, asOf time.Time) error {
	portfolios, err := s.portfolioRepo.ListAll()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(captureConcurrency)

	for _, portfolio := range portfolios {
		portfolioID := portfolio.ID
		g.Go(func() error {
			return s.capture(ctx, portfolioID, asOf)
		})
	}

	return g.Wait()
}

// capture re-reads the portfolio inside its own transaction so the snapshot
// reflects committed totals, not the values from the sweep's initial list.
func (s *SnapshotService) capture(ctx context.Context, portfolioID string, asOf time.Time) error {
	return repository.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolio, err := s.portfolioRepo.WithTx(tx).GetPortfolio(portfolioID)
		if err != nil {
			return err
		}

		return s.snapshotRepo.WithTx(tx).Upsert(ctx, &model.Snapshot{
			PortfolioID:   portfolioID,
			AsOf:          asOf,
			TotalValue:    portfolio.TotalValue,
			CashValue:     portfolio.CashValue,
			InvestedValue: portfolio.InvestedValue,
			CreatedAt:     time.Now(),
		})
	})
}
