package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"ventlink/internal/db"
	"ventlink/internal/identity"
	"ventlink/internal/middleware"
	"ventlink/internal/models"
	"ventlink/internal/services"
	"ventlink/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func contentRouter(id identity.Identity) *gin.Engine {
	r := testutil.SetupTestRouter()
	inject := func(c *gin.Context) {
		c.Set(middleware.IdentityKey, id)
		c.Next()
	}
	posts := NewPostHandler()
	comments := NewCommentHandler()
	r.POST("/posts", inject, posts.Create)
	r.GET("/posts/:id", inject, posts.Detail)
	r.POST("/posts/:id/comments", inject, comments.Create)
	r.GET("/posts/:id/comments", inject, comments.List)
	return r
}

func postJSON(r *gin.Engine, url string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(raw))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func seedWorkCategory(t *testing.T, d *gorm.DB) *models.Category {
	t.Helper()
	category := models.Category{Name: "Work", Slug: "work"}
	require.NoError(t, d.Create(&category).Error)
	return &category
}

func TestCreatePost(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	category := seedWorkCategory(t, d)
	r := contentRouter(identity.Anonymous("poster-1"))

	resp := postJSON(r, "/posts", gin.H{
		"frustration": "meetings that should have been emails",
		"identity":    "tired engineer",
		"category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &post))
	assert.Equal(t, 0, post.Score)
	assert.Equal(t, 0, post.Upvotes)
	assert.Equal(t, 0, post.CommentCount)
	require.NotNil(t, post.AnonymousID)
	assert.Equal(t, "poster-1", *post.AnonymousID)
	assert.Nil(t, post.AuthorID)
}

func TestCreatePost_Validation(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	category := seedWorkCategory(t, d)
	r := contentRouter(identity.Anonymous("poster-2"))

	// too short
	resp := postJSON(r, "/posts", gin.H{"frustration": "ab", "category_id": category.ID})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// too long
	resp = postJSON(r, "/posts", gin.H{"frustration": strings.Repeat("x", 501), "category_id": category.ID})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// identity over the cap
	resp = postJSON(r, "/posts", gin.H{
		"frustration": "a real gripe",
		"identity":    strings.Repeat("y", 101),
		"category_id": category.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// unknown category
	resp = postJSON(r, "/posts", gin.H{"frustration": "a real gripe", "category_id": 9999})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreatePost_AnonHourlyQuota(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	category := seedWorkCategory(t, d)
	r := contentRouter(identity.Anonymous("prolific-anon"))

	for i := 0; i < services.AnonPostHourlyLimit; i++ {
		resp := postJSON(r, "/posts", gin.H{
			"frustration": "yet another thing went wrong today",
			"category_id": category.ID,
		})
		require.Equal(t, http.StatusCreated, resp.Code, "post %d should fit the quota", i+1)
	}

	resp := postJSON(r, "/posts", gin.H{
		"frustration": "one gripe too many",
		"category_id": category.ID,
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	var count int64
	d.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, services.AnonPostHourlyLimit, count)
}

func TestCreateComment(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	post := seedVotablePost(t, d)
	r := contentRouter(identity.Anonymous("commenter-1"))

	resp := postJSON(r, fmt.Sprintf("/posts/%d/comments", post.ID), gin.H{
		"content": "same here, every single week",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var fresh models.Post
	require.NoError(t, db.DB.First(&fresh, post.ID).Error)
	assert.Equal(t, 1, fresh.CommentCount)

	// reply threads under the first comment
	var first models.Comment
	require.NoError(t, d.Where("post_id = ?", post.ID).First(&first).Error)
	resp = postJSON(r, fmt.Sprintf("/posts/%d/comments", post.ID), gin.H{
		"content":   "replying to the thread",
		"parent_id": first.ID,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	require.NoError(t, db.DB.First(&fresh, post.ID).Error)
	assert.Equal(t, 2, fresh.CommentCount)
}

func TestCreateComment_ParentOnOtherPost(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	post := seedVotablePost(t, d)
	other := models.Post{CategoryID: post.CategoryID, Frustration: "a different gripe"}
	require.NoError(t, d.Create(&other).Error)
	stray := models.Comment{PostID: other.ID, Content: "on the other post"}
	require.NoError(t, d.Create(&stray).Error)

	r := contentRouter(identity.Anonymous("commenter-2"))
	resp := postJSON(r, fmt.Sprintf("/posts/%d/comments", post.ID), gin.H{
		"content":   "trying to reply across posts",
		"parent_id": stray.ID,
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPostDetail(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	post := seedVotablePost(t, d)
	comment := models.Comment{PostID: post.ID, Content: "**bold** agreement"}
	require.NoError(t, d.Create(&comment).Error)

	r := contentRouter(identity.Anonymous("reader-1"))
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Comments []struct {
			ContentHTML string `json:"content_html"`
		} `json:"comments"`
		ViewerVote int `json:"viewer_vote"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Comments, 1)
	assert.Contains(t, body.Comments[0].ContentHTML, "<strong>")
	assert.Equal(t, 0, body.ViewerVote)

	req, _ = http.NewRequest(http.MethodGet, "/posts/99999", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
