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

// RelationService flips likes and subscriptions. Every target type goes through Toggle.
type RelationService struct {
	relations repositories.RelationRepository
	users     repositories.UserRepository
	videos    repositories.VideoRepository
	comments  repositories.CommentRepository
	tweets    repositories.TweetRepository
	log       *zap.Logger
}

func NewRelationService(
	relations repositories.RelationRepository,
	users repositories.UserRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	tweets repositories.TweetRepository,
) *RelationService {
	return &RelationService{
		relations: relations,
		users:     users,
		videos:    videos,
		comments:  comments,
		tweets:    tweets,
		log:       logger.Named("relation_service"),
	}
}

// Toggle creates the actor's relation to the target, or removes it if present.
func (s *RelationService) Toggle(ctx context.Context, actorID string, targetType models.TargetType, targetID string) (result *models.ToggleResult, err error) {
	ctx, span := telemetry.Start(ctx, "RelationService.Toggle")
	defer func() { telemetry.End(span, err) }()

	if _, err := requireActor(actorID); err != nil {
		return nil, err
	}
	if !targetType.Valid() {
		return nil, apperrors.Newf(apperrors.InvalidInput, "unknown target type %q", targetType)
	}
	oid, err := parseID(targetID, string(targetType))
	if err != nil {
		return nil, err
	}
	if err := s.checkTarget(ctx, actorID, targetType, oid); err != nil {
		return nil, err
	}

	key := models.RelationKey{ActorID: actorID, TargetType: targetType, TargetID: oid.Hex()}
	result, err = s.relations.Toggle(ctx, key)
	if err != nil {
		s.log.Error("Relation toggle failed", logger.WithUserID(actorID), logger.WithTarget(string(targetType), key.TargetID), zap.Error(err))
		return nil, apperrors.Failed("failed to toggle "+string(targetType.Kind()), err)
	}

	metrics.RecordToggle(string(targetType), string(result.State))
	s.log.Debug("Relation toggled",
		logger.WithUserID(actorID),
		logger.WithTarget(string(targetType), key.TargetID),
		zap.String("state", string(result.State)),
	)
	return result, nil
}

// checkTarget verifies the target exists and the actor may relate to it.
func (s *RelationService) checkTarget(ctx context.Context, actorID string, targetType models.TargetType, id primitive.ObjectID) error {
	switch targetType {
	case models.TargetVideo:
		video, err := s.videos.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "Video", "load video")
		}
		if !visibleTo(video.IsPublished, video.Owner, actorID) {
			return apperrors.NotFoundf("Video")
		}
	case models.TargetComment:
		comment, err := s.comments.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "Comment", "load comment")
		}
		video, err := s.videos.GetByID(ctx, comment.Video)
		if err != nil {
			return storeError(err, "Comment", "load comment video")
		}
		if !visibleTo(video.IsPublished, video.Owner, actorID) {
			return apperrors.NotFoundf("Comment")
		}
	case models.TargetTweet:
		if _, err := s.tweets.GetByID(ctx, id); err != nil {
			return storeError(err, "Tweet", "load tweet")
		}
	case models.TargetChannel:
		if id.Hex() == actorID {
			return apperrors.Invalid("cannot subscribe to your own channel")
		}
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return storeError(err, "Channel", "load channel")
		}
	}
	return nil
}
