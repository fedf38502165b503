package services

import (
	"errors"
	"ventlink/internal/db"
	"ventlink/internal/models"

	"gorm.io/gorm"
)

const (
	FeedLimitMin = 1
	FeedLimitMax = 50
)

// FeedQuery carries the pagination parameters shared by every feed.
type FeedQuery struct {
	Limit        int
	Cursor       *uint  // id of the last item seen, nil for the first page
	CategorySlug string // empty means all categories
}

// FeedPage is one page of posts. NextCursor is nil once the feed is
// exhausted (a short page was returned).
type FeedPage struct {
	Posts      []models.Post `json:"posts"`
	NextCursor *uint         `json:"next_cursor"`
}

// ListNew pages posts by creation time, newest first, ties broken by id so
// the cursor ordering is total.
func ListNew(q FeedQuery) (*FeedPage, error) {
	base, err := feedScope(q)
	if err != nil {
		return nil, err
	}

	if q.Cursor != nil {
		cur, err := cursorPost(*q.Cursor)
		if err != nil {
			return nil, err
		}
		base = base.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cur.CreatedAt, cur.CreatedAt, cur.ID)
	}

	var posts []models.Post
	if err := base.Order("created_at DESC, id DESC").Limit(q.Limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return page(posts, q.Limit), nil
}

// ListHot pages posts by the stored hot rank. The rank column only moves when
// the ranking worker recomputes it, so cursors stay valid between refreshes.
func ListHot(q FeedQuery) (*FeedPage, error) {
	base, err := feedScope(q)
	if err != nil {
		return nil, err
	}

	if q.Cursor != nil {
		cur, err := cursorPost(*q.Cursor)
		if err != nil {
			return nil, err
		}
		base = base.Where(
			"hot_rank < ? OR (hot_rank = ? AND (created_at < ? OR (created_at = ? AND id < ?)))",
			cur.HotRank, cur.HotRank, cur.CreatedAt, cur.CreatedAt, cur.ID)
	}

	var posts []models.Post
	if err := base.Order("hot_rank DESC, created_at DESC, id DESC").Limit(q.Limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return page(posts, q.Limit), nil
}

// feedScope validates the query and builds the base post query, resolving the
// optional category filter.
func feedScope(q FeedQuery) (*gorm.DB, error) {
	if q.Limit < FeedLimitMin || q.Limit > FeedLimitMax {
		return nil, ErrInvalidInput
	}

	base := db.DB.Model(&models.Post{}).Preload("Author").Preload("Category")

	if q.CategorySlug != "" {
		var category models.Category
		if err := db.DB.Where("slug = ?", q.CategorySlug).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		base = base.Where("category_id = ?", category.ID)
	}

	return base, nil
}

// cursorPost resolves a cursor id to the post it points at. A cursor that
// does not reference a post is malformed input, not a missing resource.
func cursorPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := db.DB.Select("id, created_at, hot_rank").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	return &post, nil
}

func page(posts []models.Post, limit int) *FeedPage {
	p := &FeedPage{Posts: posts}
	if p.Posts == nil {
		p.Posts = []models.Post{}
	}
	if len(posts) == limit && limit > 0 {
		last := posts[len(posts)-1].ID
		p.NextCursor = &last
	}
	return p
}
