package handlers

import (
	"net/http"

	serviceInterfaces "gymclass/internal/interfaces/service"
	"gymclass/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler handles class session administration requests
type SessionHandler struct {
	scheduling serviceInterfaces.SchedulingService
}

func NewSessionHandler(scheduling serviceInterfaces.SchedulingService) *SessionHandler {
	return &SessionHandler{
		scheduling: scheduling,
	}
}

// Create handles POST /api/v1/classes
func (h *SessionHandler) Create(c *gin.Context) {
	var req serviceInterfaces.CreateSessionRequest
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

	session, err := h.scheduling.CreateSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Class session created",
		Data:    session,
	})
}

// Update handles PATCH /api/v1/classes/:session_id
func (h *SessionHandler) Update(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid session ID",
			Errors:  err.Error(),
		})
		return
	}

	var req serviceInterfaces.UpdateSessionRequest
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

	session, err := h.scheduling.UpdateSession(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Class session updated",
		Data:    session,
	})
}

// Deactivate handles DELETE /api/v1/classes/:session_id
func (h *SessionHandler) Deactivate(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid session ID",
			Errors:  err.Error(),
		})
		return
	}

	if err := h.scheduling.DeactivateSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Class session deactivated",
	})
}

// List handles GET /api/v1/classes
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.scheduling.ListActiveSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    sessions,
	})
}
