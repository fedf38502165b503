package handlers

import (
	"net/http"
	"ventlink/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Karma returns a registered user's karma with the post/comment breakdown.
func (h *UserHandler) Karma(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	summary, err := services.GetKarma(id)
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
