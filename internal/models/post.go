package models

import (
	"time"
)

type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Category     Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	AuthorID     *uint     `gorm:"index" json:"author_id"`
	Author       *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	AnonymousID  *string   `gorm:"index;size:64" json:"anonymous_id,omitempty"`
	Frustration  string    `gorm:"type:text;not null" json:"frustration"`
	Identity     string    `gorm:"size:100" json:"identity"` // free-text "who am I" line
	Upvotes      int       `gorm:"default:0;not null" json:"upvotes"`
	Downvotes    int       `gorm:"default:0;not null" json:"downvotes"`
	Score        int       `gorm:"default:0;not null" json:"score"`
	CommentCount int       `gorm:"default:0;not null" json:"comment_count"`
	HotRank      int64     `gorm:"default:0;not null;index" json:"-"` // hot score in micros, maintained by the ranking worker
	CreatedAt    time.Time `json:"created_at"`
}

// Exactly one of AuthorID/AnonymousID is set on rows created by this service.
// Rows that predate identity tracking may carry neither.
