package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
)

// StockService handles stock reference data operations.
type StockService struct {
	stockRepo *repository.StockRepository
}

// NewStockService creates a new StockService with the provided repository dependencies.
func NewStockService(stockRepo *repository.StockRepository) *StockService {
	return &StockService{
		stockRepo: stockRepo,
	}
}

// CreateStock registers a stock. Symbols are unique; a duplicate fails with
// apperrors.ErrDuplicateEntry.
func (s *StockService) CreateStock(ctx context.Context, req request.CreateStockRequest) (*model.Stock, error) {
	stock := &model.Stock{
		ID:       uuid.New().String(),
		Symbol:   req.Symbol,
		Name:     req.Name,
		Currency: req.Currency,
		Exchange: req.Exchange,
	}

	if err := s.stockRepo.Insert(ctx, stock); err != nil {
		return nil, err
	}

	return stock, nil
}

// GetStock retrieves a stock by ID.
func (s *StockService) GetStock(stockID string) (model.Stock, error) {
	return s.stockRepo.GetStock(stockID)
}

// ListStocks retrieves all stocks ordered by symbol.
func (s *StockService) ListStocks() ([]model.Stock, error) {
	return s.stockRepo.ListStocks()
}
