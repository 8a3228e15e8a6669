package handlers

import (
	"net/http"

	serviceInterfaces "gymclass/internal/interfaces/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RosterHandler serves the roster projection
type RosterHandler struct {
	roster serviceInterfaces.RosterService
}

func NewRosterHandler(roster serviceInterfaces.RosterService) *RosterHandler {
	return &RosterHandler{
		roster: roster,
	}
}

// Roster handles GET /api/v1/classes/:session_id/roster
func (h *RosterHandler) Roster(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid session ID",
			Errors:  err.Error(),
		})
		return
	}

	roster, err := h.roster.Roster(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    roster,
	})
}
