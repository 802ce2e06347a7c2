package service

import (
	"context"
	"errors"
	"log"

	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/repository"
)

const (
	demoUserEmail = "demo@racional.app"
	demoUserName  = "Demo User"
)

// SeedDemoData creates a demo user with an empty portfolio if they do not
// exist yet. Safe to run on every boot.
func SeedDemoData(ctx context.Context, userSvc *UserService, portfolioSvc *PortfolioService, userRepo *repository.UserRepository) error {
	existing, err := userRepo.GetUserByEmail(demoUserEmail)
	if err == nil {
		log.Printf("demo user already present (id=%s), skipping seed", existing.ID)
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	user, err := userSvc.CreateUser(ctx, request.CreateUserRequest{
		Email: demoUserEmail,
		Name:  demoUserName,
	})
	if err != nil {
		return err
	}

	portfolio, err := portfolioSvc.CreatePortfolio(ctx, request.CreatePortfolioRequest{
		UserID:       user.ID,
		Name:         "My Portfolio",
		BaseCurrency: "USD",
	})
	if err != nil {
		return err
	}

	log.Printf("seeded demo user %s with portfolio %s", user.ID, portfolio.ID)
	return nil
}
