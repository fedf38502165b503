package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"
	"ventlink/internal/db"
	"ventlink/internal/middleware"
	"ventlink/internal/models"
	"ventlink/internal/services"
	"ventlink/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	commentMinLen = 3
	commentMaxLen = 2000
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// Create adds a comment to a post. An optional parent must be an existing
// comment on the same post. The post's comment_count moves in the same
// transaction as the insert.
func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidInput(c, "malformed comment body")
		return
	}

	req.Content = strings.TrimSpace(utils.SanitizeText(req.Content))
	if n := utf8.RuneCountInString(req.Content); n < commentMinLen || n > commentMaxLen {
		InvalidInput(c, "content must be 3-2000 characters")
		return
	}

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		AbortError(c, err)
		return
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, *req.ParentID).Error; err != nil || parent.PostID != post.ID {
			c.JSON(http.StatusNotFound, gin.H{"error": "parent comment not found on this post"})
			return
		}
	}

	actor := middleware.Identity(c)
	if err := services.CheckCommentQuota(actor); err != nil {
		AbortError(c, err)
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if actor.IsRegistered() {
		comment.AuthorID = &actor.UserID
	} else {
		anonID := actor.AnonymousID
		comment.AnonymousID = &anonID
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).
			Error
	})
	if err != nil {
		AbortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// List returns a post's comments, oldest first.
func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var post models.Post
	if err := db.DB.Select("id").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	var comments []models.Comment
	db.DB.Preload("Author").Where("post_id = ?", postID).Order("created_at ASC").Find(&comments)
	if comments == nil {
		comments = []models.Comment{}
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
