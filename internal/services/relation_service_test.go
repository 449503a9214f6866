package services

import (
	"sync"
	"testing"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleLikePairsCancelOut(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user("owner"), f.user("fan")
	video := f.video(owner, "intro", true)

	for i := 0; i < 4; i++ {
		res, err := f.svc.Relations.Toggle(f.ctx, fan, models.TargetVideo, video)
		require.NoError(t, err)
		want := models.ToggleCreated
		if i%2 == 1 {
			want = models.ToggleRemoved
		}
		assert.Equal(t, want, res.State)
		assert.Equal(t, models.KindLike, res.Kind)
	}

	eng, err := f.store.Relations().Engagement(f.ctx, fan, models.TargetVideo, []string{video})
	require.NoError(t, err)
	assert.Zero(t, eng[video].Count)
}

func TestToggleEveryTargetType(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user("owner"), f.user("fan")
	video := f.video(owner, "intro", true)
	comment, err := f.svc.Comments.Create(f.ctx, owner, video, "first")
	require.NoError(t, err)
	tweet, err := f.svc.Tweets.Create(f.ctx, owner, "hello")
	require.NoError(t, err)

	targets := map[models.TargetType]string{
		models.TargetVideo:   video,
		models.TargetComment: comment.ID.Hex(),
		models.TargetTweet:   tweet.ID.Hex(),
		models.TargetChannel: owner,
	}
	for tt, id := range targets {
		res, err := f.svc.Relations.Toggle(f.ctx, fan, tt, id)
		require.NoError(t, err, tt)
		assert.Equal(t, models.ToggleCreated, res.State, tt)
		assert.Equal(t, tt.Kind(), res.Kind)
	}
}

func TestToggleRejections(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user("owner"), f.user("fan")
	draft := f.video(owner, "draft", false)

	_, err := f.svc.Relations.Toggle(f.ctx, "", models.TargetVideo, draft)
	assertKind(t, err, apperrors.Unauthenticated)

	_, err = f.svc.Relations.Toggle(f.ctx, fan, models.TargetType("post"), draft)
	assertKind(t, err, apperrors.InvalidInput)

	_, err = f.svc.Relations.Toggle(f.ctx, fan, models.TargetVideo, "not-an-id")
	assertKind(t, err, apperrors.InvalidInput)

	_, err = f.svc.Relations.Toggle(f.ctx, fan, models.TargetTweet, primitive.NewObjectID().Hex())
	assertKind(t, err, apperrors.NotFound)

	_, err = f.svc.Relations.Toggle(f.ctx, fan, models.TargetVideo, draft)
	assertKind(t, err, apperrors.NotFound)

	_, err = f.svc.Relations.Toggle(f.ctx, owner, models.TargetVideo, draft)
	assert.NoError(t, err, "owners can like their own drafts")

	_, err = f.svc.Relations.Toggle(f.ctx, fan, models.TargetChannel, fan)
	assertKind(t, err, apperrors.InvalidInput)
}

func TestConcurrentTogglesKeepOneRowAtMost(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user("owner"), f.user("fan")

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Relations.Toggle(f.ctx, fan, models.TargetChannel, owner)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	eng, err := f.store.Relations().Engagement(f.ctx, fan, models.TargetChannel, []string{owner})
	require.NoError(t, err)
	assert.Equal(t, models.Engagement{Count: 1, ViewerHas: true}, eng[owner])
}

func TestCommentLikesFollowVideoVisibility(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user("owner"), f.user("other")
	draft := f.video(owner, "draft", false)

	comment, err := f.svc.Comments.Create(f.ctx, owner, draft, "note to self")
	require.NoError(t, err)

	_, err = f.svc.Relations.Toggle(f.ctx, other, models.TargetComment, comment.ID.Hex())
	assertKind(t, err, apperrors.NotFound)
	count, err := f.store.Relations().CountByTargets(f.ctx, models.TargetComment, []string{comment.ID.Hex()})
	require.NoError(t, err)
	assert.Zero(t, count)

	res, err := f.svc.Relations.Toggle(f.ctx, owner, models.TargetComment, comment.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.ToggleCreated, res.State)
}
