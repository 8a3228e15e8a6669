package handlers

import (
	"net/http"

	serviceInterfaces "gymclass/internal/interfaces/service"
	"gymclass/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttendanceHandler handles attendance transition requests
type AttendanceHandler struct {
	attendance serviceInterfaces.AttendanceService
}

func NewAttendanceHandler(attendance serviceInterfaces.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
	}
}

// Transition handles PATCH /api/v1/classes/:session_id/attendance/:booking_id
func (h *AttendanceHandler) Transition(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid booking ID",
			Errors:  err.Error(),
		})
		return
	}

	var req serviceInterfaces.TransitionRequest
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

	result, err := h.attendance.Transition(c.Request.Context(), bookingID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Attendance updated",
		Data:    result,
	})
}

// Get handles GET /api/v1/classes/:session_id/attendance/:booking_id
func (h *AttendanceHandler) Get(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid booking ID",
			Errors:  err.Error(),
		})
		return
	}

	record, err := h.attendance.Get(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    record,
	})
}
