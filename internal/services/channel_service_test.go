package services

import (
	"testing"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelProfileAndStats(t *testing.T) {
	f := newFixture(t)
	creator, fan, lurker := f.user("creator"), f.user("fan"), f.user("lurker")
	a := f.video(creator, "a", true)
	f.video(creator, "b", false)

	_, err := f.svc.Relations.Toggle(f.ctx, fan, models.TargetChannel, creator)
	require.NoError(t, err)
	_, err = f.svc.Relations.Toggle(f.ctx, creator, models.TargetChannel, fan)
	require.NoError(t, err)
	_, err = f.svc.Relations.Toggle(f.ctx, fan, models.TargetVideo, a)
	require.NoError(t, err)
	_, err = f.svc.Videos.Watch(f.ctx, lurker, a)
	require.NoError(t, err)

	profile, err := f.svc.Channels.Profile(f.ctx, fan, creator)
	require.NoError(t, err)
	assert.Equal(t, "creator", profile.Username)
	assert.Equal(t, int64(1), profile.SubscribersCount)
	assert.Equal(t, int64(1), profile.SubscribedToCount)
	assert.True(t, profile.IsSubscribed)

	anon, err := f.svc.Channels.Profile(f.ctx, "", creator)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)

	stats, err := f.svc.Channels.Stats(f.ctx, creator)
	require.NoError(t, err)
	assert.Equal(t, models.ChannelStats{TotalVideos: 2, TotalViews: 1, TotalLikes: 1, TotalSubscribers: 1}, *stats)

	_, err = f.svc.Channels.Stats(f.ctx, "")
	assertKind(t, err, apperrors.Unauthenticated)
}

func TestMeHidesSecrets(t *testing.T) {
	f := newFixture(t)
	id := f.user("someone")

	me, err := f.svc.Channels.Me(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "someone", me.Username)
	assert.Equal(t, "secret-hash", me.Password, "stored but never serialized")
}
