package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/racional/portfolio-ledger/internal/api/request"
	"github.com/racional/portfolio-ledger/internal/api/response"
	"github.com/racional/portfolio-ledger/internal/service"
	"github.com/racional/portfolio-ledger/internal/validation"
)

// UserHandler handles user reference data HTTP requests
type UserHandler struct {
	userService      *service.UserService
	portfolioService *service.PortfolioService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, portfolioService *service.PortfolioService) *UserHandler {
	return &UserHandler{
		userService:      userService,
		portfolioService: portfolioService,
	}
}

// Create creates a user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !parseJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateCreateUser(req); err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// Get retrieves a user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	user, err := h.userService.GetUser(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}

// List retrieves all users.
func (h *UserHandler) List(w http.ResponseWriter, _ *http.Request) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, users)
}

// Portfolios retrieves all portfolios owned by a user.
func (h *UserHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	portfolios, err := h.portfolioService.ListByUser(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}
