package services

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
)

// ChannelService reads users as channels: profiles and dashboard totals.
type ChannelService struct {
	users     repositories.UserRepository
	videos    repositories.VideoRepository
	relations repositories.RelationRepository
}

func NewChannelService(users repositories.UserRepository, videos repositories.VideoRepository, relations repositories.RelationRepository) *ChannelService {
	return &ChannelService{users: users, videos: videos, relations: relations}
}

// Me returns the signed-in user's own record.
func (s *ChannelService) Me(ctx context.Context, actorID string) (*models.User, error) {
	actor, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, actor)
	if err != nil {
		return nil, storeError(err, "User", "load user")
	}
	return user, nil
}

// Profile returns a channel as seen by viewerID, who may be anonymous.
func (s *ChannelService) Profile(ctx context.Context, viewerID, channelID string) (*models.ChannelProfile, error) {
	id, err := parseID(channelID, "channel")
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Channel", "load channel")
	}

	subs, err := s.relations.Engagement(ctx, viewerID, models.TargetChannel, []string{id.Hex()})
	if err != nil {
		return nil, apperrors.Failed("failed to load subscribers", err)
	}
	subscribedTo, err := s.relations.CountByActor(ctx, id.Hex(), models.TargetChannel)
	if err != nil {
		return nil, apperrors.Failed("failed to load subscriptions", err)
	}
	return &models.ChannelProfile{
		OwnerSummary:      user.ToSummary(),
		CoverImage:        user.CoverImage,
		SubscribersCount:  subs[id.Hex()].Count,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      subs[id.Hex()].ViewerHas,
	}, nil
}

// Stats totals the actor's channel for the dashboard.
func (s *ChannelService) Stats(ctx context.Context, actorID string) (*models.ChannelStats, error) {
	actor, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	videos, views, err := s.videos.OwnerTotals(ctx, actor)
	if err != nil {
		return nil, apperrors.Failed("failed to total videos", err)
	}
	ids, err := s.videos.IDsByOwner(ctx, actor)
	if err != nil {
		return nil, apperrors.Failed("failed to load videos", err)
	}
	likes, err := s.relations.CountByTargets(ctx, models.TargetVideo, hexIDs(ids))
	if err != nil {
		return nil, apperrors.Failed("failed to count likes", err)
	}
	subscribers, err := s.relations.CountByTargets(ctx, models.TargetChannel, []string{actor.Hex()})
	if err != nil {
		return nil, apperrors.Failed("failed to count subscribers", err)
	}
	return &models.ChannelStats{
		TotalVideos:      videos,
		TotalViews:       views,
		TotalLikes:       likes,
		TotalSubscribers: subscribers,
	}, nil
}
