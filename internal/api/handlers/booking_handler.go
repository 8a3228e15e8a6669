package handlers

import (
	"net/http"

	"gymclass/internal/api/middleware"
	serviceInterfaces "gymclass/internal/interfaces/service"
	"gymclass/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler handles booking and waitlist HTTP requests
type BookingHandler struct {
	scheduling serviceInterfaces.SchedulingService
}

func NewBookingHandler(scheduling serviceInterfaces.SchedulingService) *BookingHandler {
	return &BookingHandler{
		scheduling: scheduling,
	}
}

// Book handles POST /api/v1/classes/:session_id/bookings
func (h *BookingHandler) Book(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid session ID",
			Errors:  err.Error(),
		})
		return
	}

	var req serviceInterfaces.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	req.IdempotencyKey = c.GetString(middleware.IdempotencyContextKey)

	outcome, err := h.scheduling.Book(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Booking processed",
		Data:    outcome,
	})
}

// Cancel handles DELETE /api/v1/classes/:session_id/bookings/:booking_id
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid booking ID",
			Errors:  err.Error(),
		})
		return
	}

	reason := c.Query("reason")
	if reason == "" {
		reason = "member cancellation"
	}

	if err := h.scheduling.Cancel(c.Request.Context(), bookingID, reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Booking cancelled",
	})
}

// PromoteHead handles POST /api/v1/classes/:session_id/waitlist/promote
func (h *BookingHandler) PromoteHead(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid session ID",
			Errors:  err.Error(),
		})
		return
	}

	result, err := h.scheduling.PromoteHead(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Promotion attempt processed",
		Data:    result,
	})
}

// Withdraw handles DELETE /api/v1/classes/:session_id/waitlist/:entry_id
func (h *BookingHandler) Withdraw(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entry_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid waitlist entry ID",
			Errors:  err.Error(),
		})
		return
	}

	if err := h.scheduling.Withdraw(c.Request.Context(), entryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Waitlist entry withdrawn",
	})
}
