package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/racional/portfolio-ledger/internal/api/response"
	"github.com/racional/portfolio-ledger/internal/apperrors"
	"github.com/racional/portfolio-ledger/internal/validation"
)

// parseJSON decodes the request body into v. On failure it writes a 400
// response and returns false; callers return immediately.
func parseJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// respondServiceError maps a service-layer failure to an HTTP response.
// Domain failures carry their own status and stable code; validation
// failures carry a field-error map; anything else is a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		response.RespondError(w, domainErr.Status, domainErr.Message, domainErr.Code)
		return
	}

	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", validationErr.Fields)
		return
	}

	response.RespondError(w, http.StatusInternalServerError, "internal server error", err.Error())
}
