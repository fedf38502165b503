package services

import (
	"errors"
	"time"
	"ventlink/internal/db"
	"ventlink/internal/identity"
	"ventlink/internal/models"
	"ventlink/internal/ratelimit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnonVoteHourlyLimit caps vote casts per anonymous actor. Vote rows are
// deleted on toggle-off, so this window is tracked in memory rather than
// counted from rows.
const AnonVoteHourlyLimit = 30

var voteLimiter = newVoteLimiter()

func newVoteLimiter() *ratelimit.MemoryLimiter {
	l := ratelimit.NewMemoryLimiter()
	l.StartSweeper(10 * time.Minute)
	return l
}

// VoteResult is the outcome of one cast: the voter's resulting state on the
// target and the target's updated counters.
type VoteResult struct {
	Status    int `json:"status"` // 1, -1 or 0 (no vote)
	Score     int `json:"score"`
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// CastVote runs the toggle state machine for one (voter, target) pair.
//
// The prior-vote read, the vote row write, the counter update and the author
// karma update all happen inside one transaction, with the target row locked
// for update, so counters can never be observed out of sync with vote rows.
func CastVote(voter identity.Identity, targetType string, targetID uint, value int) (*VoteResult, error) {
	if !voter.Valid() {
		return nil, ErrUnauthenticated
	}
	if value != 1 && value != -1 {
		return nil, ErrInvalidInput
	}
	if targetType != models.TargetPost && targetType != models.TargetComment {
		return nil, ErrInvalidInput
	}

	if !voter.IsRegistered() && !voteLimiter.Allow(voter.Key(), AnonVoteHourlyLimit, time.Hour) {
		return nil, ErrRateLimited
	}

	var result VoteResult

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the target row first. Concurrent casts on the same target
		// serialize here, so each one reads a settled prior state.
		var authorID *uint
		var score, upvotes, downvotes int

		switch targetType {
		case models.TargetPost:
			var post models.Post
			if err := lockForUpdate(tx).First(&post, targetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			authorID = post.AuthorID
			score, upvotes, downvotes = post.Score, post.Upvotes, post.Downvotes
		case models.TargetComment:
			var comment models.Comment
			if err := lockForUpdate(tx).First(&comment, targetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			authorID = comment.AuthorID
			score, upvotes, downvotes = comment.Score, comment.Upvotes, comment.Downvotes
		}

		var existing models.Vote
		err := voterScope(tx, voter).
			Where("target_type = ? AND target_id = ?", targetType, targetID).
			First(&existing).Error
		prior := 0
		if err == nil {
			prior = existing.Value
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		status, scoreDelta, upDelta, downDelta := transition(prior, value)

		switch {
		case prior == 0:
			vote := models.Vote{
				TargetType: targetType,
				TargetID:   targetID,
				Value:      value,
			}
			if voter.IsRegistered() {
				vote.VoterUserID = &voter.UserID
			} else {
				vote.VoterAnonymousID = &voter.AnonymousID
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		case prior == value:
			// Same direction cast twice flips the vote off.
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
		}

		if err := bumpCounters(tx, targetType, targetID, upDelta, downDelta, scoreDelta); err != nil {
			return err
		}

		if authorID != nil && scoreDelta != 0 {
			source := models.KarmaSourcePost
			if targetType == models.TargetComment {
				source = models.KarmaSourceComment
			}
			if err := applyKarma(tx, *authorID, scoreDelta, source); err != nil {
				return err
			}
		}

		result = VoteResult{
			Status:    status,
			Score:     score + scoreDelta,
			Upvotes:   upvotes + upDelta,
			Downvotes: downvotes + downDelta,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// transition implements the toggle table. Returns the voter's new state plus
// the score/upvote/downvote deltas to apply to the target.
func transition(prior, cast int) (status, scoreDelta, upDelta, downDelta int) {
	switch {
	case prior == 0:
		status = cast
		scoreDelta = cast
	case prior == cast:
		// toggle off
		status = 0
		scoreDelta = -cast
	default:
		// direction switch moves score by 2
		status = cast
		scoreDelta = 2 * cast
	}

	if prior == 1 {
		upDelta--
	} else if prior == -1 {
		downDelta--
	}
	if status == 1 {
		upDelta++
	} else if status == -1 {
		downDelta++
	}
	return
}

func bumpCounters(tx *gorm.DB, targetType string, targetID uint, upDelta, downDelta, scoreDelta int) error {
	updates := map[string]interface{}{
		"upvotes":   gorm.Expr("upvotes + ?", upDelta),
		"downvotes": gorm.Expr("downvotes + ?", downDelta),
		"score":     gorm.Expr("score + ?", scoreDelta),
	}
	if targetType == models.TargetPost {
		return tx.Model(&models.Post{}).Where("id = ?", targetID).UpdateColumns(updates).Error
	}
	return tx.Model(&models.Comment{}).Where("id = ?", targetID).UpdateColumns(updates).Error
}

func voterScope(tx *gorm.DB, voter identity.Identity) *gorm.DB {
	if voter.IsRegistered() {
		return tx.Where("voter_user_id = ?", voter.UserID)
	}
	return tx.Where("voter_anonymous_id = ?", voter.AnonymousID)
}

// lockForUpdate takes a row lock under postgres. The sqlite test database has
// no FOR UPDATE; its single-writer lock already serializes the transaction.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// VoteStatus reports the voter's current state on a target without mutating
// anything: 1, -1 or 0.
func VoteStatus(voter identity.Identity, targetType string, targetID uint) int {
	if !voter.Valid() {
		return 0
	}
	var vote models.Vote
	err := voterScope(db.DB, voter).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		First(&vote).Error
	if err != nil {
		return 0
	}
	return vote.Value
}
