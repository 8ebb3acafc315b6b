package response

import (
	"errors"
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/employee"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. All failures are
// terminal; nothing here triggers a retry.
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// State machine precondition failures
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Fail(w, http.StatusConflict, "ALREADY_CHECKED_IN", err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Fail(w, http.StatusConflict, "ALREADY_CHECKED_OUT", err.Error())
	case errors.Is(err, attendance.ErrCheckInRequired):
		Fail(w, http.StatusBadRequest, "CHECK_IN_REQUIRED", err.Error())

	// Filter validation failures
	case errors.Is(err, attendance.ErrInvalidEmployeeID):
		Fail(w, http.StatusBadRequest, "INVALID_IDENTIFIER", err.Error())
	case errors.Is(err, attendance.ErrInvalidDateFilter):
		Fail(w, http.StatusBadRequest, "INVALID_DATE_FILTER", err.Error())

	// Lookup failures
	case errors.Is(err, attendance.ErrRecordNotFound):
		Fail(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound):
		Fail(w, http.StatusNotFound, "NOT_FOUND", err.Error())

	// Access failures
	case errors.Is(err, employee.ErrManagerAccessRequired):
		Forbidden(w, err.Error())

	// Store failures propagate as a single terminal error
	case errors.Is(err, attendance.ErrStoreUnavailable):
		Fail(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "attendance store unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
