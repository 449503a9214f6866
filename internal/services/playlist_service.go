package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/anonto42/vidtube/backend/pkg/metrics"
	"github.com/anonto42/vidtube/backend/pkg/telemetry"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PlaylistService manages playlists and their ordered, duplicate-free video lists.
type PlaylistService struct {
	playlists repositories.PlaylistRepository
	videos    repositories.VideoRepository
	enricher  *Enricher
	log       *zap.Logger
}

func NewPlaylistService(playlists repositories.PlaylistRepository, videos repositories.VideoRepository, enricher *Enricher) *PlaylistService {
	return &PlaylistService{
		playlists: playlists,
		videos:    videos,
		enricher:  enricher,
		log:       logger.Named("playlist_service"),
	}
}

func (s *PlaylistService) Create(ctx context.Context, actorID string, req models.CreatePlaylistRequest) (*models.Playlist, error) {
	owner, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Invalid("name is required")
	}

	playlist := &models.Playlist{Owner: owner, Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, apperrors.Failed("failed to create playlist", err)
	}
	return playlist, nil
}

// Get returns a playlist with the member videos the viewer can see, in playlist order.
func (s *PlaylistService) Get(ctx context.Context, viewerID, playlistID string) (*models.PlaylistView, error) {
	id, err := parseID(playlistID, "playlist")
	if err != nil {
		return nil, err
	}
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Playlist", "load playlist")
	}

	views, err := s.videos.ListByIDs(ctx, playlist.Videos)
	if err != nil {
		return nil, apperrors.Failed("failed to load playlist videos", err)
	}
	items := visibleVideos(orderVideos(playlist.Videos, views), viewerID)
	if err := s.enricher.Videos(ctx, viewerID, items); err != nil {
		return nil, err
	}
	return &models.PlaylistView{Playlist: *playlist, Items: items}, nil
}

func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID string, page models.PageRequest) (models.Page[models.Playlist], error) {
	owner, err := parseID(ownerID, "user")
	if err != nil {
		return models.Page[models.Playlist]{}, err
	}
	items, total, err := s.playlists.ListByOwner(ctx, owner, page)
	if err != nil {
		return models.Page[models.Playlist]{}, apperrors.Failed("failed to list playlists", err)
	}
	return models.NewPage(items, page, total), nil
}

// owned loads a playlist and checks that actorID owns it.
func (s *PlaylistService) owned(ctx context.Context, actorID, playlistID string) (*models.Playlist, primitive.ObjectID, error) {
	actor, err := requireActor(actorID)
	if err != nil {
		return nil, actor, err
	}
	id, err := parseID(playlistID, "playlist")
	if err != nil {
		return nil, actor, err
	}
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, actor, storeError(err, "Playlist", "load playlist")
	}
	if playlist.Owner != actor {
		return nil, actor, apperrors.New(apperrors.Forbidden, "you do not own this playlist")
	}
	return playlist, actor, nil
}

func (s *PlaylistService) Update(ctx context.Context, actorID, playlistID string, req models.UpdatePlaylistRequest) (*models.Playlist, error) {
	playlist, _, err := s.owned(ctx, actorID, playlistID)
	if err != nil {
		return nil, err
	}
	patch := models.PlaylistPatch{Description: req.Description}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Invalid("name cannot be empty")
		}
		patch.Name = &name
	}
	if patch.Name == nil && patch.Description == nil {
		return nil, apperrors.Invalid("nothing to update")
	}

	updated, err := s.playlists.Update(ctx, playlist.ID, patch)
	if err != nil {
		return nil, storeError(err, "Playlist", "update playlist")
	}
	return updated, nil
}

func (s *PlaylistService) Delete(ctx context.Context, actorID, playlistID string) error {
	playlist, _, err := s.owned(ctx, actorID, playlistID)
	if err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, playlist.ID); err != nil {
		return storeError(err, "Playlist", "delete playlist")
	}
	return nil
}

// AddVideo appends a video to the end of the playlist.
func (s *PlaylistService) AddVideo(ctx context.Context, actorID, playlistID, videoID string) (out *models.Playlist, err error) {
	ctx, span := telemetry.Start(ctx, "PlaylistService.AddVideo")
	defer func() { telemetry.End(span, err) }()

	playlist, actor, err := s.owned(ctx, actorID, playlistID)
	if err != nil {
		return nil, err
	}
	vid, err := parseID(videoID, "video")
	if err != nil {
		return nil, err
	}
	video, err := s.videos.GetByID(ctx, vid)
	if err != nil {
		return nil, storeError(err, "Video", "load video")
	}
	if !visibleTo(video.IsPublished, video.Owner, actorID) {
		return nil, apperrors.NotFoundf("Video")
	}
	if playlist.Contains(vid) {
		return nil, apperrors.New(apperrors.AlreadyPresent, "video is already in the playlist")
	}

	out, err = s.playlists.AddVideo(ctx, playlist.ID, actor, vid)
	if errors.Is(err, repositories.ErrConditionFailed) {
		return nil, s.classifyGuardMiss(ctx, playlist.ID, actor, vid, true)
	}
	if err != nil {
		return nil, apperrors.Failed("failed to add video to playlist", err)
	}
	metrics.RecordPlaylistChange("add")
	s.log.Debug("Video added to playlist", zap.String("playlist_id", playlist.ID.Hex()), logger.WithVideoID(vid.Hex()))
	return out, nil
}

// RemoveVideo drops a video from the playlist, keeping the order of the rest.
func (s *PlaylistService) RemoveVideo(ctx context.Context, actorID, playlistID, videoID string) (out *models.Playlist, err error) {
	ctx, span := telemetry.Start(ctx, "PlaylistService.RemoveVideo")
	defer func() { telemetry.End(span, err) }()

	playlist, actor, err := s.owned(ctx, actorID, playlistID)
	if err != nil {
		return nil, err
	}
	vid, err := parseID(videoID, "video")
	if err != nil {
		return nil, err
	}
	if !playlist.Contains(vid) {
		return nil, apperrors.New(apperrors.NotPresent, "video is not in the playlist")
	}

	out, err = s.playlists.RemoveVideo(ctx, playlist.ID, actor, vid)
	if errors.Is(err, repositories.ErrConditionFailed) {
		return nil, s.classifyGuardMiss(ctx, playlist.ID, actor, vid, false)
	}
	if err != nil {
		return nil, apperrors.Failed("failed to remove video from playlist", err)
	}
	metrics.RecordPlaylistChange("remove")
	s.log.Debug("Video removed from playlist", zap.String("playlist_id", playlist.ID.Hex()), logger.WithVideoID(vid.Hex()))
	return out, nil
}

// classifyGuardMiss explains a guarded update that matched nothing because the
// playlist changed after it was checked.
func (s *PlaylistService) classifyGuardMiss(ctx context.Context, id, actor, vid primitive.ObjectID, adding bool) error {
	current, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "Playlist", "reload playlist")
	}
	switch {
	case current.Owner != actor:
		return apperrors.New(apperrors.Forbidden, "you do not own this playlist")
	case adding && current.Contains(vid):
		return apperrors.New(apperrors.AlreadyPresent, "video is already in the playlist")
	case !adding && !current.Contains(vid):
		return apperrors.New(apperrors.NotPresent, "video is not in the playlist")
	}
	return apperrors.New(apperrors.OperationFailed, "playlist changed concurrently")
}
