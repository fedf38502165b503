package models

import (
	"time"
)

type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	Post        Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID    *uint     `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent      *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID    *uint     `gorm:"index" json:"author_id"`
	Author      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	AnonymousID *string   `gorm:"index;size:64" json:"anonymous_id,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Upvotes     int       `gorm:"default:0;not null" json:"upvotes"`
	Downvotes   int       `gorm:"default:0;not null" json:"downvotes"`
	Score       int       `gorm:"default:0;not null" json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}
