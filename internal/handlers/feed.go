package handlers

import (
	"net/http"
	"strings"
	"time"
	"ventlink/internal/services"
	"ventlink/internal/utils"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct{}

func NewFeedHandler() *FeedHandler {
	return &FeedHandler{}
}

// feedQuery parses limit/cursor/category from the request. Reports failure
// itself; callers just return.
func feedQuery(c *gin.Context) (services.FeedQuery, bool) {
	q := services.FeedQuery{
		Limit:        services.FeedLimitMax,
		CategorySlug: c.Query("category"),
	}

	if raw := c.Query("limit"); raw != "" {
		q.Limit = utils.StringToInt(raw)
		if q.Limit < services.FeedLimitMin || q.Limit > services.FeedLimitMax {
			InvalidInput(c, "limit must be between 1 and 50")
			return q, false
		}
	}

	if raw := c.Query("cursor"); raw != "" {
		id, ok := utils.ParseUint(raw)
		if !ok {
			InvalidInput(c, "malformed cursor")
			return q, false
		}
		q.Cursor = &id
	}

	return q, true
}

// New serves the recency feed.
func (h *FeedHandler) New(c *gin.Context) {
	q, ok := feedQuery(c)
	if !ok {
		return
	}

	page, err := services.ListNew(q)
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Hot serves the trending feed. The cursorless default page is cached
// briefly; it is the hottest path and the ordering only moves when the
// ranking worker runs.
func (h *FeedHandler) Hot(c *gin.Context) {
	q, ok := feedQuery(c)
	if !ok {
		return
	}

	cacheable := q.Cursor == nil && q.CategorySlug == "" && q.Limit == services.FeedLimitMax
	cacheKey := "feed:hot:first"
	if cacheable {
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if page, ok := cached.(*services.FeedPage); ok {
				c.JSON(http.StatusOK, page)
				return
			}
		}
	}

	page, err := services.ListHot(q)
	if err != nil {
		AbortError(c, err)
		return
	}

	if cacheable {
		utils.GetCache().Set(cacheKey, page, 1*time.Minute)
	}

	c.JSON(http.StatusOK, page)
}

// ByCategory serves the new feed for one category slug.
func (h *FeedHandler) ByCategory(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		InvalidInput(c, "category slug is required")
		return
	}

	q, ok := feedQuery(c)
	if !ok {
		return
	}
	q.CategorySlug = slug

	page, err := services.ListNew(q)
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
