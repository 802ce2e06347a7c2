package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Insert stores a new user row.
// Returns apperrors.ErrDuplicateEntry if the email is already taken.
func (r *UserRepository) Insert(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO "user" (id, email, name, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.Name, FormatTime(u.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
// Returns apperrors.ErrUserNotFound if no row exists.
func (r *UserRepository) GetUser(userID string) (model.User, error) {
	query := `SELECT id, email, name, created_at FROM "user" WHERE id = ?`
	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetUserByEmail retrieves a user by email.
// Returns apperrors.ErrUserNotFound if no row exists.
func (r *UserRepository) GetUserByEmail(email string) (model.User, error) {
	query := `SELECT id, email, name, created_at FROM "user" WHERE email = ?`
	return r.scanUser(r.db.QueryRow(query, email))
}

func (r *UserRepository) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var createdAtStr string

	err := row.Scan(&u.ID, &u.Email, &u.Name, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user table: %w", err)
	}

	if u.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.User{}, err
	}

	return u, nil
}

// ListUsers retrieves all users ordered by creation time.
func (r *UserRepository) ListUsers() ([]model.User, error) {
	query := `SELECT id, email, name, created_at FROM "user" ORDER BY created_at ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query user table: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		var createdAtStr string

		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan user table results: %w", err)
		}
		if u.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user table: %w", err)
	}

	return users, nil
}
