package services

import (
	"testing"
	"ventlink/internal/identity"
	"ventlink/internal/models"
	"ventlink/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKarma_FollowsScoreDeltas(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	author := seedUser(t, d, "henry")
	category := seedCategory(t, d, "work")
	post := seedPost(t, d, category.ID, &author.ID)
	comment := seedComment(t, d, post.ID, &author.ID)

	voter := identity.Anonymous("karma-voter")

	_, err := CastVote(voter, models.TargetPost, post.ID, 1)
	require.NoError(t, err)
	_, err = CastVote(voter, models.TargetComment, comment.ID, 1)
	require.NoError(t, err)

	summary, err := GetKarma(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Karma)
	assert.Equal(t, 1, summary.PostKarma)
	assert.Equal(t, 1, summary.CommentKarma)

	// direction switch on the post moves karma by -2
	_, err = CastVote(voter, models.TargetPost, post.ID, -1)
	require.NoError(t, err)

	summary, err = GetKarma(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Karma)
	assert.Equal(t, -1, summary.PostKarma)
	assert.Equal(t, 1, summary.CommentKarma)

	// toggle the downvote off again, karma returns to comment-only
	_, err = CastVote(voter, models.TargetPost, post.ID, -1)
	require.NoError(t, err)

	summary, err = GetKarma(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Karma)
	assert.Equal(t, 0, summary.PostKarma)
}

func TestKarma_AnonymousContentNeverContributes(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	bystander := seedUser(t, d, "iris")
	category := seedCategory(t, d, "life")
	post := seedPost(t, d, category.ID, nil) // anonymous author

	_, err := CastVote(identity.Registered(bystander.ID), models.TargetPost, post.ID, 1)
	require.NoError(t, err)
	_, err = CastVote(identity.Anonymous("karma-anon"), models.TargetPost, post.ID, 1)
	require.NoError(t, err)

	summary, err := GetKarma(bystander.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Karma)

	var logCount int64
	d.Model(&models.KarmaLog{}).Count(&logCount)
	assert.Equal(t, int64(0), logCount, "votes on anonymous content must not write karma logs")
}

func TestKarma_EqualsSumOfAuthoredScores(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	author := seedUser(t, d, "july")
	category := seedCategory(t, d, "tech")
	postA := seedPost(t, d, category.ID, &author.ID)
	postB := seedPost(t, d, category.ID, &author.ID)
	comment := seedComment(t, d, postA.ID, &author.ID)

	casts := []struct {
		voter      string
		targetType string
		targetID   uint
		value      int
	}{
		{"k1", models.TargetPost, postA.ID, 1},
		{"k2", models.TargetPost, postA.ID, 1},
		{"k3", models.TargetPost, postB.ID, -1},
		{"k1", models.TargetComment, comment.ID, 1},
		{"k2", models.TargetComment, comment.ID, -1},
		{"k1", models.TargetPost, postA.ID, 1}, // toggles k1's post upvote back off
	}
	for _, cast := range casts {
		_, err := CastVote(identity.Anonymous(cast.voter), cast.targetType, cast.targetID, cast.value)
		require.NoError(t, err)
	}

	var scoreSum int
	var posts []models.Post
	require.NoError(t, d.Where("author_id = ?", author.ID).Find(&posts).Error)
	for _, p := range posts {
		scoreSum += p.Score
	}
	var comments []models.Comment
	require.NoError(t, d.Where("author_id = ?", author.ID).Find(&comments).Error)
	for _, cm := range comments {
		scoreSum += cm.Score
	}

	summary, err := GetKarma(author.ID)
	require.NoError(t, err)
	assert.Equal(t, scoreSum, summary.Karma, "karma must equal the sum of authored scores")
}

func TestGetKarma_UnknownUser(t *testing.T) {
	_, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	_, err := GetKarma(424242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetKarma_DetectsDrift(t *testing.T) {
	d, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	author := seedUser(t, d, "kelly")
	category := seedCategory(t, d, "work")
	post := seedPost(t, d, category.ID, &author.ID)

	_, err := CastVote(identity.Anonymous("drift"), models.TargetPost, post.ID, 1)
	require.NoError(t, err)

	// corrupt the maintained column behind the engine's back
	require.NoError(t, d.Model(&models.User{}).Where("id = ?", author.ID).UpdateColumn("karma", 99).Error)

	_, err = GetKarma(author.ID)
	assert.ErrorIs(t, err, ErrConflict)
}
