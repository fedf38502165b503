package models

import (
	"time"
)

const (
	TargetPost    = "post"
	TargetComment = "comment"
)

type Vote struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TargetType       string    `gorm:"size:10;not null;uniqueIndex:idx_user_vote;uniqueIndex:idx_anon_vote" json:"target_type"`
	TargetID         uint      `gorm:"not null;uniqueIndex:idx_user_vote;uniqueIndex:idx_anon_vote" json:"target_id"`
	VoterUserID      *uint     `gorm:"uniqueIndex:idx_user_vote" json:"voter_user_id,omitempty"`
	VoterAnonymousID *string   `gorm:"size:64;uniqueIndex:idx_anon_vote" json:"voter_anonymous_id,omitempty"`
	Value            int       `gorm:"not null" json:"value"` // 1 or -1, never 0; toggle-off deletes the row
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Exactly one of VoterUserID/VoterAnonymousID is non-null. PG unique indexes
// treat NULLs as distinct, so each composite index only bites for its own
// identity column.
