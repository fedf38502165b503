package services

import (
	"errors"
	"log"
	"ventlink/internal/db"
	"ventlink/internal/models"

	"gorm.io/gorm"
)

// KarmaSummary is the karma query response: the maintained total plus the
// per-source breakdown derived from the karma log.
type KarmaSummary struct {
	UserID       uint `json:"user_id"`
	Karma        int  `json:"karma"`
	PostKarma    int  `json:"post_karma"`
	CommentKarma int  `json:"comment_karma"`
}

// applyKarma 在投票事务内给内容作者应用积分增量
// Runs inside the vote transaction: a score delta and its karma delta commit
// or roll back together.
func applyKarma(tx *gorm.DB, userID uint, delta int, source string) error {
	entry := models.KarmaLog{
		UserID: userID,
		Delta:  delta,
		Source: source,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("karma", gorm.Expr("karma + ?", delta)).
		Error
}

// GetKarma returns a user's karma with the post/comment breakdown. The
// breakdown is summed from karma_logs and cross-checked against the
// maintained users.karma column; divergence is a fatal internal error.
func GetKarma(userID uint) (*KarmaSummary, error) {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	type sourceSum struct {
		Source string
		Total  int
	}
	var sums []sourceSum
	if err := db.DB.Model(&models.KarmaLog{}).
		Select("source, COALESCE(SUM(delta), 0) as total").
		Where("user_id = ?", userID).
		Group("source").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	summary := KarmaSummary{UserID: user.ID, Karma: user.Karma}
	for _, s := range sums {
		switch s.Source {
		case models.KarmaSourcePost:
			summary.PostKarma = s.Total
		case models.KarmaSourceComment:
			summary.CommentKarma = s.Total
		}
	}

	if summary.PostKarma+summary.CommentKarma != user.Karma {
		log.Printf("karma mismatch for user %d: column=%d logs=%d",
			user.ID, user.Karma, summary.PostKarma+summary.CommentKarma)
		return nil, ErrConflict
	}

	return &summary, nil
}
