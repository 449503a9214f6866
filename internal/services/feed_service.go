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

// FeedService composes paginated, viewer-enriched listings.
type FeedService struct {
	users     repositories.UserRepository
	videos    repositories.VideoRepository
	comments  repositories.CommentRepository
	tweets    repositories.TweetRepository
	relations repositories.RelationRepository
	enricher  *Enricher
	log       *zap.Logger
}

func NewFeedService(
	users repositories.UserRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	tweets repositories.TweetRepository,
	relations repositories.RelationRepository,
	enricher *Enricher,
) *FeedService {
	return &FeedService{
		users:     users,
		videos:    videos,
		comments:  comments,
		tweets:    tweets,
		relations: relations,
		enricher:  enricher,
		log:       logger.Named("feed_service"),
	}
}

// Videos lists videos matching filter. Unpublished videos are only listed when the
// viewer asks for their own channel.
func (s *FeedService) Videos(ctx context.Context, viewerID string, filter models.VideoFilter, sort models.SortSpec, page models.PageRequest) (out models.Page[models.VideoView], err error) {
	defer metrics.ObserveFeed("videos")()
	ctx, span := telemetry.Start(ctx, "FeedService.Videos")
	defer func() { telemetry.End(span, err) }()

	filter.IncludeUnpublished = !filter.OwnerID.IsZero() && filter.OwnerID.Hex() == viewerID

	items, total, err := s.videos.List(ctx, filter, sort, page)
	if err != nil {
		s.log.Error("Video feed query failed", zap.Error(err))
		return out, apperrors.Failed("failed to list videos", err)
	}
	if err := s.enricher.Videos(ctx, viewerID, items); err != nil {
		return out, err
	}
	return models.NewPage(items, page, total), nil
}

// Comments lists a visible video's comments, newest first.
func (s *FeedService) Comments(ctx context.Context, viewerID, videoID string, page models.PageRequest) (out models.Page[models.CommentView], err error) {
	defer metrics.ObserveFeed("comments")()
	ctx, span := telemetry.Start(ctx, "FeedService.Comments")
	defer func() { telemetry.End(span, err) }()

	vid, err := parseID(videoID, "video")
	if err != nil {
		return out, err
	}
	video, err := s.videos.GetByID(ctx, vid)
	if err != nil {
		return out, storeError(err, "Video", "load video")
	}
	if !visibleTo(video.IsPublished, video.Owner, viewerID) {
		return out, apperrors.NotFoundf("Video")
	}

	items, total, err := s.comments.ListByVideo(ctx, vid, page)
	if err != nil {
		return out, apperrors.Failed("failed to list comments", err)
	}
	if err := s.enricher.Comments(ctx, viewerID, items); err != nil {
		return out, err
	}
	return models.NewPage(items, page, total), nil
}

// Tweets lists a channel's tweets, newest first.
func (s *FeedService) Tweets(ctx context.Context, viewerID, ownerID string, page models.PageRequest) (out models.Page[models.TweetView], err error) {
	defer metrics.ObserveFeed("tweets")()
	ctx, span := telemetry.Start(ctx, "FeedService.Tweets")
	defer func() { telemetry.End(span, err) }()

	owner, err := parseID(ownerID, "user")
	if err != nil {
		return out, err
	}
	if _, err := s.users.GetByID(ctx, owner); err != nil {
		return out, storeError(err, "User", "load user")
	}

	items, total, err := s.tweets.ListByOwner(ctx, owner, page)
	if err != nil {
		return out, apperrors.Failed("failed to list tweets", err)
	}
	if err := s.enricher.Tweets(ctx, viewerID, items); err != nil {
		return out, err
	}
	return models.NewPage(items, page, total), nil
}

// LikedVideos lists the videos the actor liked, most recent like first. Videos the
// actor can no longer see are dropped from the page; totalItems counts like rows.
func (s *FeedService) LikedVideos(ctx context.Context, actorID string, page models.PageRequest) (out models.Page[models.VideoView], err error) {
	defer metrics.ObserveFeed("liked_videos")()
	ctx, span := telemetry.Start(ctx, "FeedService.LikedVideos")
	defer func() { telemetry.End(span, err) }()

	if _, err := requireActor(actorID); err != nil {
		return out, err
	}
	hex, total, err := s.relations.ListTargets(ctx, actorID, models.TargetVideo, page)
	if err != nil {
		return out, apperrors.Failed("failed to list liked videos", err)
	}
	ids := objectIDs(hex)
	views, err := s.videos.ListByIDs(ctx, ids)
	if err != nil {
		return out, apperrors.Failed("failed to load liked videos", err)
	}
	items := visibleVideos(orderVideos(ids, views), actorID)
	if err := s.enricher.Videos(ctx, actorID, items); err != nil {
		return out, err
	}
	return models.NewPage(items, page, total), nil
}

// Subscribers lists who subscribes to channelID.
func (s *FeedService) Subscribers(ctx context.Context, viewerID, channelID string, page models.PageRequest) (models.Page[models.ChannelSummary], error) {
	defer metrics.ObserveFeed("subscribers")()
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return models.Page[models.ChannelSummary]{}, err
	}
	hex, total, err := s.relations.ListActors(ctx, models.TargetChannel, channel.Hex(), page)
	if err != nil {
		return models.Page[models.ChannelSummary]{}, apperrors.Failed("failed to list subscribers", err)
	}
	return s.channelPage(ctx, viewerID, hex, page, total)
}

// SubscribedChannels lists the channels subscriberID subscribes to.
func (s *FeedService) SubscribedChannels(ctx context.Context, viewerID, subscriberID string, page models.PageRequest) (models.Page[models.ChannelSummary], error) {
	defer metrics.ObserveFeed("subscribed_channels")()
	subscriber, err := s.channel(ctx, subscriberID)
	if err != nil {
		return models.Page[models.ChannelSummary]{}, err
	}
	hex, total, err := s.relations.ListTargets(ctx, subscriber.Hex(), models.TargetChannel, page)
	if err != nil {
		return models.Page[models.ChannelSummary]{}, apperrors.Failed("failed to list subscriptions", err)
	}
	return s.channelPage(ctx, viewerID, hex, page, total)
}

func (s *FeedService) channel(ctx context.Context, rawID string) (primitive.ObjectID, error) {
	id, err := parseID(rawID, "channel")
	if err != nil {
		return id, err
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return id, storeError(err, "Channel", "load channel")
	}
	return id, nil
}

func (s *FeedService) channelPage(ctx context.Context, viewerID string, hex []string, page models.PageRequest, total int64) (models.Page[models.ChannelSummary], error) {
	ids := objectIDs(hex)
	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return models.Page[models.ChannelSummary]{}, apperrors.Failed("failed to load channels", err)
	}
	items := make([]models.ChannelSummary, 0, len(ids))
	for _, id := range ids {
		if summary, ok := summaries[id]; ok {
			items = append(items, models.ChannelSummary{OwnerSummary: summary})
		}
	}
	if err := s.enricher.Channels(ctx, viewerID, items); err != nil {
		return models.Page[models.ChannelSummary]{}, err
	}
	return models.NewPage(items, page, total), nil
}
