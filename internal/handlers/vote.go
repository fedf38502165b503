package handlers

import (
	"net/http"
	"ventlink/internal/middleware"
	"ventlink/internal/models"
	"ventlink/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type castRequest struct {
	TargetType string `json:"target_type"`
	TargetID   uint   `json:"target_id"`
	Value      int    `json:"value"`
}

// Cast applies one vote. Same value twice toggles off; the opposite value
// switches direction.
func (h *VoteHandler) Cast(c *gin.Context) {
	var req castRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidInput(c, "malformed vote body")
		return
	}

	voter := middleware.Identity(c)

	result, err := services.CastVote(voter, req.TargetType, req.TargetID, req.Value)
	if err != nil {
		AbortError(c, err)
		return
	}

	// 异步刷新帖子热度
	if req.TargetType == models.TargetPost {
		services.GetRankingService().ScheduleUpdate(req.TargetID)
	}

	c.JSON(http.StatusOK, result)
}

// Status reports the caller's current vote on a target.
func (h *VoteHandler) Status(c *gin.Context) {
	targetType := c.Param("type")
	if targetType != models.TargetPost && targetType != models.TargetComment {
		InvalidInput(c, "unknown target type")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	status := services.VoteStatus(middleware.Identity(c), targetType, id)
	c.JSON(http.StatusOK, gin.H{"status": status})
}
