package handlers

import (
	"net/http"
	"strconv"

	"gymclass/internal/domain/member"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultSearchLimit = 20

// MemberHandler serves read access to the member directory
type MemberHandler struct {
	directory member.Directory
}

func NewMemberHandler(directory member.Directory) *MemberHandler {
	return &MemberHandler{
		directory: directory,
	}
}

// Search handles GET /api/v1/members/search?q=
func (h *MemberHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Query parameter q is required",
		})
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	members, err := h.directory.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    members,
	})
}

// Get handles GET /api/v1/members/:member_id
func (h *MemberHandler) Get(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid member ID",
			Errors:  err.Error(),
		})
		return
	}

	m, err := h.directory.GetByID(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    m,
	})
}
