package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/model"
	"github.com/racional/portfolio-ledger/internal/repository"
)

// UserService handles user reference data operations.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService with the provided repository dependencies.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUser creates a user. Emails are unique; a duplicate fails with
// apperrors.ErrDuplicateEntry.
func (s *UserService) CreateUser(ctx context.Context, req request.CreateUserRequest) (*model.User, error) {
	user := &model.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Insert(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(userID string) (model.User, error) {
	return s.userRepo.GetUser(userID)
}

// ListUsers retrieves all users ordered by creation time.
func (s *UserService) ListUsers() ([]model.User, error) {
	return s.userRepo.ListUsers()
}
