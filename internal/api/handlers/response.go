package handlers

import (
	"errors"
	"net/http"

	domain "gymclass/internal/domain/schedule"

	"github.com/gin-gonic/gin"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// respondError maps domain sentinel errors to HTTP statuses. Anything not
// recognized is a 500; the raw error never leaks for those.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrMemberNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrDuplicateBooking),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrIdempotencyKeyReused),
		errors.Is(err, domain.ErrBookingContention):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domain.ErrSessionInactive),
		errors.Is(err, domain.ErrSessionStarted),
		errors.Is(err, domain.ErrCapacityBelowConfirmed):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusBadRequest
		message = err.Error()
	}

	c.JSON(status, APIResponse{
		Success: false,
		Message: message,
	})
}
