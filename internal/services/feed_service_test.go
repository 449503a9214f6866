package services

import (
	"testing"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVideoFeedEnrichment(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	u1, u2, u3, u4 := f.user("u1"), f.user("u2"), f.user("u3"), f.user("u4")
	video := f.video(owner, "popular", true)

	for _, u := range []string{u1, u2, u3} {
		_, err := f.svc.Relations.Toggle(f.ctx, u, models.TargetVideo, video)
		require.NoError(t, err)
	}
	_, err := f.svc.Relations.Toggle(f.ctx, u2, models.TargetChannel, owner)
	require.NoError(t, err)

	page := models.NewPageRequest(1, 10)
	cases := []struct {
		viewer     string
		liked      bool
		subscribed bool
	}{
		{u2, true, true},
		{u4, false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		got, err := f.svc.Feeds.Videos(f.ctx, tc.viewer, models.VideoFilter{}, models.DefaultSort, page)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		item := got.Items[0]
		assert.Equal(t, int64(3), item.LikesCount)
		assert.Equal(t, tc.liked, item.IsLiked, "viewer %q", tc.viewer)
		assert.Equal(t, tc.subscribed, item.IsSubscribed, "viewer %q", tc.viewer)
		assert.Equal(t, "owner", item.Owner.Username)
	}
}

func TestVideoFeedHidesDraftsFromOthers(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user("owner"), f.user("other")
	f.video(owner, "public", true)
	f.video(owner, "draft", false)

	ownerID, _ := primitive.ObjectIDFromHex(owner)
	filter := models.VideoFilter{OwnerID: ownerID}
	page := models.NewPageRequest(1, 10)

	mine, err := f.svc.Feeds.Videos(f.ctx, owner, filter, models.DefaultSort, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.TotalItems)

	theirs, err := f.svc.Feeds.Videos(f.ctx, other, filter, models.DefaultSort, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), theirs.TotalItems)

	// IncludeUnpublished from a caller is ignored
	forced, err := f.svc.Feeds.Videos(f.ctx, other, models.VideoFilter{IncludeUnpublished: true}, models.DefaultSort, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), forced.TotalItems)
}

func TestVideoFeedPaginationCompleteness(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	want := map[string]bool{}
	for i := 0; i < 11; i++ {
		want[f.video(owner, "same-title", true)] = true
	}

	seen := map[string]bool{}
	spec := models.SortSpec{Field: "title", Desc: false}
	for p := 1; p <= 3; p++ {
		got, err := f.svc.Feeds.Videos(f.ctx, "", models.VideoFilter{}, spec, models.NewPageRequest(p, 4))
		require.NoError(t, err)
		assert.Equal(t, int64(11), got.TotalItems)
		assert.Equal(t, int64(3), got.TotalPages)
		for _, item := range got.Items {
			assert.False(t, seen[item.ID.Hex()])
			seen[item.ID.Hex()] = true
		}
	}
	assert.Equal(t, want, seen)

	empty, err := f.svc.Feeds.Videos(f.ctx, "", models.VideoFilter{}, spec, models.NewPageRequest(9, 4))
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.NotNil(t, empty.Items)
}

func TestCommentFeed(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user("owner"), f.user("fan")
	video := f.video(owner, "intro", true)

	first, err := f.svc.Comments.Create(f.ctx, fan, video, "first")
	require.NoError(t, err)
	_, err = f.svc.Comments.Create(f.ctx, owner, video, "second")
	require.NoError(t, err)
	_, err = f.svc.Relations.Toggle(f.ctx, owner, models.TargetComment, first.ID.Hex())
	require.NoError(t, err)

	got, err := f.svc.Feeds.Comments(f.ctx, owner, video, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "second", got.Items[0].Content)
	assert.Equal(t, "first", got.Items[1].Content)
	assert.True(t, got.Items[1].IsLiked)
	assert.Equal(t, int64(1), got.Items[1].LikesCount)
	assert.Equal(t, "fan", got.Items[1].Owner.Username)

	_, err = f.svc.Feeds.Comments(f.ctx, owner, primitive.NewObjectID().Hex(), models.NewPageRequest(1, 10))
	assertKind(t, err, apperrors.NotFound)
}

func TestTweetFeed(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user("owner"), f.user("fan")
	tweet, err := f.svc.Tweets.Create(f.ctx, owner, "hello")
	require.NoError(t, err)
	_, err = f.svc.Relations.Toggle(f.ctx, fan, models.TargetTweet, tweet.ID.Hex())
	require.NoError(t, err)

	got, err := f.svc.Feeds.Tweets(f.ctx, fan, owner, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].IsLiked)

	_, err = f.svc.Feeds.Tweets(f.ctx, fan, primitive.NewObjectID().Hex(), models.NewPageRequest(1, 10))
	assertKind(t, err, apperrors.NotFound)
}

func TestLikedVideosNewestFirst(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user("owner"), f.user("fan")
	a := f.video(owner, "a", true)
	b := f.video(owner, "b", true)

	for _, v := range []string{a, b} {
		_, err := f.svc.Relations.Toggle(f.ctx, fan, models.TargetVideo, v)
		require.NoError(t, err)
	}

	got, err := f.svc.Feeds.LikedVideos(f.ctx, fan, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, b, got.Items[0].ID.Hex())
	assert.Equal(t, a, got.Items[1].ID.Hex())
	assert.True(t, got.Items[0].IsLiked)

	_, err = f.svc.Feeds.LikedVideos(f.ctx, "", models.NewPageRequest(1, 10))
	assertKind(t, err, apperrors.Unauthenticated)
}

func TestSubscriptionFeeds(t *testing.T) {
	f := newFixture(t)
	creator, a, b := f.user("creator"), f.user("a"), f.user("b")

	for _, u := range []string{a, b} {
		_, err := f.svc.Relations.Toggle(f.ctx, u, models.TargetChannel, creator)
		require.NoError(t, err)
	}

	subs, err := f.svc.Feeds.Subscribers(f.ctx, a, creator, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), subs.TotalItems)
	require.Len(t, subs.Items, 2)
	assert.Equal(t, "b", subs.Items[0].Username)

	channels, err := f.svc.Feeds.SubscribedChannels(f.ctx, a, a, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, channels.Items, 1)
	assert.Equal(t, "creator", channels.Items[0].Username)
	assert.Equal(t, int64(2), channels.Items[0].SubscribersCount)
	assert.True(t, channels.Items[0].IsSubscribed)

	_, err = f.svc.Feeds.Subscribers(f.ctx, a, "bad", models.NewPageRequest(1, 10))
	assertKind(t, err, apperrors.InvalidInput)
}
