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
	frustrationMinLen = 3
	frustrationMaxLen = 500
	identityMaxLen    = 100
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

type createPostRequest struct {
	Frustration string `json:"frustration"`
	Identity    string `json:"identity"`
	CategoryID  uint   `json:"category_id"`
}

// Create accepts a new frustration post. Gated by the hourly creation quota
// for the resolved actor; posts start with zero counters.
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidInput(c, "malformed post body")
		return
	}

	req.Frustration = strings.TrimSpace(utils.SanitizeText(req.Frustration))
	req.Identity = strings.TrimSpace(utils.SanitizeText(req.Identity))

	if n := utf8.RuneCountInString(req.Frustration); n < frustrationMinLen || n > frustrationMaxLen {
		InvalidInput(c, "frustration must be 3-500 characters")
		return
	}
	if utf8.RuneCountInString(req.Identity) > identityMaxLen {
		InvalidInput(c, "identity must be at most 100 characters")
		return
	}

	var category models.Category
	if err := db.DB.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		AbortError(c, err)
		return
	}

	actor := middleware.Identity(c)
	if err := services.CheckPostQuota(actor); err != nil {
		AbortError(c, err)
		return
	}

	post := models.Post{
		CategoryID:  category.ID,
		Frustration: req.Frustration,
		Identity:    req.Identity,
	}
	if actor.IsRegistered() {
		post.AuthorID = &actor.UserID
	} else {
		anonID := actor.AnonymousID
		post.AnonymousID = &anonID
	}

	if err := db.DB.Create(&post).Error; err != nil {
		AbortError(c, err)
		return
	}

	services.GetRankingService().ScheduleUpdate(post.ID)

	c.JSON(http.StatusCreated, post)
}

// Detail returns one post with rendered HTML and its comments.
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var post models.Post
	if err := db.DB.Preload("Author").Preload("Category").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		AbortError(c, err)
		return
	}

	var comments []models.Comment
	db.DB.Preload("Author").Where("post_id = ?", post.ID).Order("created_at ASC").Find(&comments)

	type commentView struct {
		models.Comment
		ContentHTML string `json:"content_html"`
	}
	commentViews := make([]commentView, len(comments))
	for i, com := range comments {
		commentViews[i] = commentView{
			Comment:     com,
			ContentHTML: utils.RenderMarkdown(com.Content),
		}
	}

	viewerStatus := services.VoteStatus(middleware.Identity(c), models.TargetPost, post.ID)

	c.JSON(http.StatusOK, gin.H{
		"post":             post,
		"frustration_html": utils.RenderMarkdown(post.Frustration),
		"comments":         commentViews,
		"viewer_vote":      viewerStatus,
	})
}
