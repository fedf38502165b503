package services

import (
	"time"
	"ventlink/internal/db"
	"ventlink/internal/identity"
	"ventlink/internal/models"

	"gorm.io/gorm"
)

// Content-creation ceilings per actor per trailing hour. Creations are
// counted straight from the timestamped rows, so the window slides on its
// own and nobody stays blocked once their old posts age out of it.
const (
	AnonPostHourlyLimit = 5
	UserPostHourlyLimit = 20
	CommentHourlyLimit  = 20
)

// CheckPostQuota rejects a post creation once the actor has hit their hourly
// ceiling.
func CheckPostQuota(actor identity.Identity) error {
	if !actor.Valid() {
		return ErrUnauthenticated
	}

	limit := AnonPostHourlyLimit
	if actor.IsRegistered() {
		limit = UserPostHourlyLimit
	}

	count, err := countRecent(db.DB.Model(&models.Post{}), actor)
	if err != nil {
		return err
	}
	if count >= int64(limit) {
		return ErrRateLimited
	}
	return nil
}

// CheckCommentQuota is the same gate for comment creation.
func CheckCommentQuota(actor identity.Identity) error {
	if !actor.Valid() {
		return ErrUnauthenticated
	}

	count, err := countRecent(db.DB.Model(&models.Comment{}), actor)
	if err != nil {
		return err
	}
	if count >= CommentHourlyLimit {
		return ErrRateLimited
	}
	return nil
}

func countRecent(q *gorm.DB, actor identity.Identity) (int64, error) {
	windowStart := time.Now().Add(-time.Hour)
	q = q.Where("created_at >= ?", windowStart)
	if actor.IsRegistered() {
		q = q.Where("author_id = ?", actor.UserID)
	} else {
		q = q.Where("anonymous_id = ?", actor.AnonymousID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
