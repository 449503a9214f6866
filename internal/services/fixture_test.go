package services

import (
	"context"
	"testing"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithDeps(t, memory.New(), nil)
}

// newFixtureWithDeps builds services over store; override may replace individual repositories.
func newFixtureWithDeps(t *testing.T, store *memory.Store, override func(*Deps)) *fixture {
	deps := Deps{
		Users:             store.Users(),
		Videos:            store.Videos(),
		Comments:          store.Comments(),
		Tweets:            store.Tweets(),
		Playlists:         store.Playlists(),
		Relations:         store.Relations(),
		WatchHistoryLimit: 3,
	}
	if override != nil {
		override(&deps)
	}
	return &fixture{t: t, ctx: context.Background(), store: store, svc: New(deps)}
}

func (f *fixture) user(name string) string {
	u := &models.User{Username: name, FullName: name, Email: name + "@example.com", Password: "secret-hash"}
	require.NoError(f.t, f.store.Users().Create(f.ctx, u))
	return u.ID.Hex()
}

func (f *fixture) video(owner, title string, published bool) string {
	v, err := f.svc.Videos.Publish(f.ctx, owner, models.CreateVideoRequest{
		Title:       title,
		Description: title + " description",
		VideoFile:   models.MediaHandle{URL: "https://cdn.example.com/" + title + ".mp4", Duration: 42},
		Thumbnail:   models.MediaHandle{URL: "https://cdn.example.com/" + title + ".jpg"},
		IsPublished: &published,
	})
	require.NoError(f.t, err)
	return v.ID.Hex()
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperrors.KindOf(err), err.Error())
}
