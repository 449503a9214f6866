package services

import (
	"context"
	"testing"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPlaylistMembership(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user("owner"), f.user("other")
	a, b := f.video(owner, "a", true), f.video(owner, "b", true)

	pl, err := f.svc.Playlists.Create(f.ctx, owner, models.CreatePlaylistRequest{Name: " mix "})
	require.NoError(t, err)
	assert.Equal(t, "mix", pl.Name)
	id := pl.ID.Hex()

	_, err = f.svc.Playlists.AddVideo(f.ctx, owner, id, a)
	require.NoError(t, err)
	got, err := f.svc.Playlists.AddVideo(f.ctx, owner, id, b)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, hexIDs(got.Videos))

	_, err = f.svc.Playlists.AddVideo(f.ctx, owner, id, a)
	assertKind(t, err, apperrors.AlreadyPresent)

	got, err = f.svc.Playlists.RemoveVideo(f.ctx, owner, id, a)
	require.NoError(t, err)
	assert.Equal(t, []string{b}, hexIDs(got.Videos))

	_, err = f.svc.Playlists.RemoveVideo(f.ctx, owner, id, a)
	assertKind(t, err, apperrors.NotPresent)

	_, err = f.svc.Playlists.AddVideo(f.ctx, other, id, a)
	assertKind(t, err, apperrors.Forbidden)
	_, err = f.svc.Playlists.RemoveVideo(f.ctx, other, id, b)
	assertKind(t, err, apperrors.Forbidden)

	_, err = f.svc.Playlists.AddVideo(f.ctx, owner, primitive.NewObjectID().Hex(), a)
	assertKind(t, err, apperrors.NotFound)
	_, err = f.svc.Playlists.AddVideo(f.ctx, owner, id, primitive.NewObjectID().Hex())
	assertKind(t, err, apperrors.NotFound)
}

func TestPlaylistOwnerOnlyEdits(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user("owner"), f.user("other")
	pl, err := f.svc.Playlists.Create(f.ctx, owner, models.CreatePlaylistRequest{Name: "mix"})
	require.NoError(t, err)

	name := "renamed"
	_, err = f.svc.Playlists.Update(f.ctx, other, pl.ID.Hex(), models.UpdatePlaylistRequest{Name: &name})
	assertKind(t, err, apperrors.Forbidden)
	assertKind(t, f.svc.Playlists.Delete(f.ctx, other, pl.ID.Hex()), apperrors.Forbidden)

	updated, err := f.svc.Playlists.Update(f.ctx, owner, pl.ID.Hex(), models.UpdatePlaylistRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	_, err = f.svc.Playlists.Update(f.ctx, owner, pl.ID.Hex(), models.UpdatePlaylistRequest{})
	assertKind(t, err, apperrors.InvalidInput)

	require.NoError(t, f.svc.Playlists.Delete(f.ctx, owner, pl.ID.Hex()))
	_, err = f.svc.Playlists.Get(f.ctx, owner, pl.ID.Hex())
	assertKind(t, err, apperrors.NotFound)
}

func TestPlaylistGetHidesOthersDrafts(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user("owner"), f.user("other")
	public := f.video(other, "public", true)
	later := f.video(other, "later", true)
	mine := f.video(owner, "mine", false)

	pl, err := f.svc.Playlists.Create(f.ctx, owner, models.CreatePlaylistRequest{Name: "mix"})
	require.NoError(t, err)
	for _, v := range []string{mine, later, public} {
		_, err := f.svc.Playlists.AddVideo(f.ctx, owner, pl.ID.Hex(), v)
		require.NoError(t, err)
	}
	_, err = f.svc.Videos.TogglePublish(f.ctx, other, later)
	require.NoError(t, err)

	view, err := f.svc.Playlists.Get(f.ctx, owner, pl.ID.Hex())
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, mine, view.Items[0].ID.Hex())
	assert.Equal(t, public, view.Items[1].ID.Hex())

	anon, err := f.svc.Playlists.Get(f.ctx, "", pl.ID.Hex())
	require.NoError(t, err)
	require.Len(t, anon.Items, 1)
	assert.Equal(t, public, anon.Items[0].ID.Hex())
}

func TestAddVideoRejectsOthersDrafts(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user("owner"), f.user("other")
	draft := f.video(other, "draft", false)

	pl, err := f.svc.Playlists.Create(f.ctx, owner, models.CreatePlaylistRequest{Name: "mix"})
	require.NoError(t, err)

	_, err = f.svc.Playlists.AddVideo(f.ctx, owner, pl.ID.Hex(), draft)
	assertKind(t, err, apperrors.NotFound)
	_, err = f.svc.Playlists.AddVideo(f.ctx, owner, pl.ID.Hex(), draft)
	assertKind(t, err, apperrors.NotFound)

	stored, err := f.store.Playlists().GetByID(f.ctx, pl.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Videos)

	_, err = f.svc.Playlists.AddVideo(f.ctx, other, pl.ID.Hex(), draft)
	assertKind(t, err, apperrors.Forbidden)
}

// racingPlaylists lets another writer add the same video between the check and the write.
type racingPlaylists struct {
	*memory.PlaylistRepository
}

func (r racingPlaylists) AddVideo(ctx context.Context, id, owner, videoID primitive.ObjectID) (*models.Playlist, error) {
	if _, err := r.PlaylistRepository.AddVideo(ctx, id, owner, videoID); err != nil {
		return nil, err
	}
	return r.PlaylistRepository.AddVideo(ctx, id, owner, videoID)
}

func TestAddVideoClassifiesConcurrentChange(t *testing.T) {
	store := memory.New()
	f := newFixtureWithDeps(t, store, func(d *Deps) {
		d.Playlists = racingPlaylists{store.Playlists()}
	})
	owner := f.user("owner")
	video := f.video(owner, "a", true)
	pl, err := f.svc.Playlists.Create(f.ctx, owner, models.CreatePlaylistRequest{Name: "mix"})
	require.NoError(t, err)

	_, err = f.svc.Playlists.AddVideo(f.ctx, owner, pl.ID.Hex(), video)
	assertKind(t, err, apperrors.AlreadyPresent)

	stored, err := store.Playlists().GetByID(f.ctx, pl.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Videos, 1)
}

var _ repositories.PlaylistRepository = racingPlaylists{}
