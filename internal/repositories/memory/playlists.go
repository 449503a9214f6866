package memory

import (
	"context"
	"sort"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlaylistRepository struct{ s *Store }

func copyPlaylist(p *models.Playlist) *models.Playlist {
	out := *p
	out.Videos = cloneIDs(p.Videos)
	return &out
}

func (r *PlaylistRepository) Create(_ context.Context, playlist *models.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	playlist.ID = primitive.NewObjectID()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	r.s.playlists[playlist.ID] = copyPlaylist(playlist)
	return nil
}

func (r *PlaylistRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyPlaylist(p), nil
}

func (r *PlaylistRepository) ListByOwner(_ context.Context, owner primitive.ObjectID, page models.PageRequest) ([]models.Playlist, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*models.Playlist{}
	for _, p := range r.s.playlists {
		if p.Owner == owner {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})

	out := make([]models.Playlist, 0, page.PageSize)
	for _, p := range paginate(matched, page) {
		out = append(out, *copyPlaylist(p))
	}
	return out, int64(len(matched)), nil
}

func (r *PlaylistRepository) Update(_ context.Context, id primitive.ObjectID, patch models.PlaylistPatch) (*models.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.UpdatedAt = r.s.now()
	return copyPlaylist(p), nil
}

func (r *PlaylistRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.playlists, id)
	return nil
}

func (r *PlaylistRepository) AddVideo(_ context.Context, id, owner, videoID primitive.ObjectID) (*models.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.playlists[id]
	if !ok || p.Owner != owner || p.Contains(videoID) {
		return nil, repositories.ErrConditionFailed
	}
	p.Videos = append(p.Videos, videoID)
	p.UpdatedAt = r.s.now()
	return copyPlaylist(p), nil
}

func (r *PlaylistRepository) RemoveVideo(_ context.Context, id, owner, videoID primitive.ObjectID) (*models.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.playlists[id]
	if !ok || p.Owner != owner || !p.Contains(videoID) {
		return nil, repositories.ErrConditionFailed
	}
	p.Videos = without(p.Videos, videoID)
	p.UpdatedAt = r.s.now()
	return copyPlaylist(p), nil
}

func (r *PlaylistRepository) PullVideoEverywhere(_ context.Context, videoID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, p := range r.s.playlists {
		if p.Contains(videoID) {
			p.Videos = without(p.Videos, videoID)
			p.UpdatedAt = r.s.now()
			n++
		}
	}
	return n, nil
}

func without(ids []primitive.ObjectID, drop primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
