package handlers

import (
	"net/http"
	"ventlink/internal/db"
	"ventlink/internal/models"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	db.DB.Order("id ASC").Find(&categories)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
