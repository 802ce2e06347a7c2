package validation

import (
	"strings"

	"github.com/racional/portfolio-ledger/internal/api/request"
)

// ValidateCreateUser validates a user creation request.
func ValidateCreateUser(req request.CreateUserRequest) error {
	errors := make(map[string]string)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errors["email"] = "email is invalid"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
