package services

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/anonto42/vidtube/backend/pkg/metrics"
	"github.com/anonto42/vidtube/backend/pkg/telemetry"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const DefaultWatchHistoryLimit = 50

// HistoryService maintains each user's most-recent-first watch history.
type HistoryService struct {
	users    repositories.UserRepository
	videos   repositories.VideoRepository
	enricher *Enricher
	limit    int
	log      *zap.Logger
}

func NewHistoryService(users repositories.UserRepository, videos repositories.VideoRepository, enricher *Enricher, limit int) *HistoryService {
	if limit <= 0 {
		limit = DefaultWatchHistoryLimit
	}
	return &HistoryService{
		users:    users,
		videos:   videos,
		enricher: enricher,
		limit:    limit,
		log:      logger.Named("history_service"),
	}
}

// RecordView puts videoID at the front of the user's history in one atomic update.
func (s *HistoryService) RecordView(ctx context.Context, userID, videoID string) (history []primitive.ObjectID, err error) {
	ctx, span := telemetry.Start(ctx, "HistoryService.RecordView")
	defer func() { telemetry.End(span, err) }()

	uid, err := requireActor(userID)
	if err != nil {
		return nil, err
	}
	vid, err := parseID(videoID, "video")
	if err != nil {
		return nil, err
	}
	if _, err := s.videos.GetByID(ctx, vid); err != nil {
		return nil, storeError(err, "Video", "load video")
	}
	return s.record(ctx, uid, vid)
}

func (s *HistoryService) record(ctx context.Context, uid, vid primitive.ObjectID) ([]primitive.ObjectID, error) {
	history, err := s.users.RecordView(ctx, uid, vid, s.limit)
	if err != nil {
		s.log.Error("Watch history update failed", logger.WithUserID(uid.Hex()), logger.WithVideoID(vid.Hex()), zap.Error(err))
		return nil, storeError(err, "User", "update watch history")
	}
	metrics.RecordWatch()
	return history, nil
}

// History returns a page of the user's watched videos in history order. The list is
// capped, so it is resolved whole and videos the user can no longer see are dropped
// before paging.
func (s *HistoryService) History(ctx context.Context, userID string, page models.PageRequest) (out models.Page[models.VideoView], err error) {
	defer metrics.ObserveFeed("history")()
	ctx, span := telemetry.Start(ctx, "HistoryService.History")
	defer func() { telemetry.End(span, err) }()

	uid, err := requireActor(userID)
	if err != nil {
		return out, err
	}
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return out, storeError(err, "User", "load user")
	}
	views, err := s.videos.ListByIDs(ctx, user.WatchHistory)
	if err != nil {
		return out, apperrors.Failed("failed to load watch history", err)
	}
	visible := visibleVideos(orderVideos(user.WatchHistory, views), userID)
	items := slicePage(visible, page)
	if err := s.enricher.Videos(ctx, userID, items); err != nil {
		return out, err
	}
	return models.NewPage(items, page, int64(len(visible))), nil
}

// Clear empties the user's history.
func (s *HistoryService) Clear(ctx context.Context, userID string) error {
	uid, err := requireActor(userID)
	if err != nil {
		return err
	}
	if err := s.users.ClearHistory(ctx, uid); err != nil {
		return storeError(err, "User", "clear watch history")
	}
	return nil
}
