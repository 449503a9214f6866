package services

import (
	"context"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/anonto42/vidtube/backend/pkg/telemetry"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VideoService covers the video lifecycle: publishing, watching, editing and removal.
type VideoService struct {
	videos    repositories.VideoRepository
	comments  repositories.CommentRepository
	playlists repositories.PlaylistRepository
	relations repositories.RelationRepository
	history   *HistoryService
	enricher  *Enricher
	log       *zap.Logger
}

func NewVideoService(
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	playlists repositories.PlaylistRepository,
	relations repositories.RelationRepository,
	history *HistoryService,
	enricher *Enricher,
) *VideoService {
	return &VideoService{
		videos:    videos,
		comments:  comments,
		playlists: playlists,
		relations: relations,
		history:   history,
		enricher:  enricher,
		log:       logger.Named("video_service"),
	}
}

// Publish stores a new video from already uploaded media. Videos are published
// immediately unless the request says otherwise.
func (s *VideoService) Publish(ctx context.Context, actorID string, req models.CreateVideoRequest) (*models.Video, error) {
	owner, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, apperrors.Invalid("title and description are required")
	}
	if req.VideoFile.URL == "" || req.Thumbnail.URL == "" {
		return nil, apperrors.Invalid("video file and thumbnail are required")
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	video := &models.Video{
		Owner:       owner,
		Title:       title,
		Description: description,
		VideoFile:   req.VideoFile.URL,
		Thumbnail:   req.Thumbnail.URL,
		Duration:    req.VideoFile.Duration,
		IsPublished: published,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, apperrors.Failed("failed to publish video", err)
	}
	s.log.Info("Video published", logger.WithUserID(actorID), logger.WithVideoID(video.ID.Hex()))
	return video, nil
}

// Watch returns one video for the viewer, recording it in the viewer's history when
// signed in and then counting the view.
func (s *VideoService) Watch(ctx context.Context, viewerID, videoID string) (view *models.VideoView, err error) {
	ctx, span := telemetry.Start(ctx, "VideoService.Watch")
	defer func() { telemetry.End(span, err) }()

	id, err := parseID(videoID, "video")
	if err != nil {
		return nil, err
	}
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Video", "load video")
	}
	if !visibleTo(video.IsPublished, video.Owner, viewerID) {
		return nil, apperrors.NotFoundf("Video")
	}

	if viewerID != "" {
		viewer, err := requireActor(viewerID)
		if err != nil {
			return nil, err
		}
		if _, err := s.history.record(ctx, viewer, id); err != nil {
			return nil, err
		}
	}
	// Count only once the viewer and history entry are settled.
	if err := s.videos.IncrementViews(ctx, id); err != nil {
		return nil, storeError(err, "Video", "count view")
	}

	view, err = s.videos.GetView(ctx, id)
	if err != nil {
		return nil, storeError(err, "Video", "load video")
	}
	items := []models.VideoView{*view}
	if err := s.enricher.Videos(ctx, viewerID, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// owned loads a video and checks that actorID owns it.
func (s *VideoService) owned(ctx context.Context, actorID, videoID string) (*models.Video, error) {
	actor, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	id, err := parseID(videoID, "video")
	if err != nil {
		return nil, err
	}
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Video", "load video")
	}
	if video.Owner != actor {
		return nil, apperrors.New(apperrors.Forbidden, "you do not own this video")
	}
	return video, nil
}

func (s *VideoService) Update(ctx context.Context, actorID, videoID string, req models.UpdateVideoRequest) (*models.Video, error) {
	video, err := s.owned(ctx, actorID, videoID)
	if err != nil {
		return nil, err
	}

	var patch models.VideoPatch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.Invalid("title cannot be empty")
		}
		patch.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, apperrors.Invalid("description cannot be empty")
		}
		patch.Description = &description
	}
	if req.Thumbnail != nil {
		if req.Thumbnail.URL == "" {
			return nil, apperrors.Invalid("thumbnail url is required")
		}
		patch.Thumbnail = &req.Thumbnail.URL
	}
	if patch.Empty() {
		return nil, apperrors.Invalid("nothing to update")
	}

	updated, err := s.videos.Update(ctx, video.ID, patch)
	if err != nil {
		return nil, storeError(err, "Video", "update video")
	}
	return updated, nil
}

func (s *VideoService) TogglePublish(ctx context.Context, actorID, videoID string) (*models.Video, error) {
	video, err := s.owned(ctx, actorID, videoID)
	if err != nil {
		return nil, err
	}
	updated, err := s.videos.TogglePublish(ctx, video.ID)
	if err != nil {
		return nil, storeError(err, "Video", "toggle publish status")
	}
	return updated, nil
}

// Delete removes a video after its comments, their likes, the video's likes and
// its playlist memberships. The video goes last so a failed delete can be retried.
func (s *VideoService) Delete(ctx context.Context, actorID, videoID string) (err error) {
	ctx, span := telemetry.Start(ctx, "VideoService.Delete")
	defer func() { telemetry.End(span, err) }()

	video, err := s.owned(ctx, actorID, videoID)
	if err != nil {
		return err
	}
	if err := s.cascade(ctx, video.ID); err != nil {
		s.log.Error("Video cleanup failed", logger.WithVideoID(video.ID.Hex()), zap.Error(err))
		return apperrors.Failed("failed to delete video", err)
	}
	if err := s.videos.Delete(ctx, video.ID); err != nil {
		return storeError(err, "Video", "delete video")
	}
	s.log.Info("Video deleted", logger.WithUserID(actorID), logger.WithVideoID(video.ID.Hex()))
	return nil
}

func (s *VideoService) cascade(ctx context.Context, id primitive.ObjectID) error {
	commentIDs, err := s.comments.IDsByVideo(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.relations.DeleteByTargets(ctx, models.TargetComment, hexIDs(commentIDs)); err != nil {
		return err
	}
	if _, err := s.comments.DeleteByVideo(ctx, id); err != nil {
		return err
	}
	if _, err := s.relations.DeleteByTargets(ctx, models.TargetVideo, []string{id.Hex()}); err != nil {
		return err
	}
	_, err = s.playlists.PullVideoEverywhere(ctx, id)
	return err
}
