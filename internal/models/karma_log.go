package models

import (
	"time"
)

const (
	KarmaSourcePost    = "post"
	KarmaSourceComment = "comment"
)

// KarmaLog records every karma delta applied to a user, tagged by the kind of
// content the vote landed on. users.karma is the running sum of these rows.
type KarmaLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Delta     int       `gorm:"not null" json:"delta"`
	Source    string    `gorm:"size:10;not null" json:"source"` // post or comment
	CreatedAt time.Time `json:"created_at"`
}
