package services

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enricher fills the viewer-relative fields of a page of items. Each call costs
// one relation query per target type, regardless of page size.
type Enricher struct {
	relations repositories.RelationRepository
}

func NewEnricher(relations repositories.RelationRepository) *Enricher {
	return &Enricher{relations: relations}
}

func (e *Enricher) engagement(ctx context.Context, viewerID string, tt models.TargetType, ids []string) (map[string]models.Engagement, error) {
	eng, err := e.relations.Engagement(ctx, viewerID, tt, ids)
	if err != nil {
		return nil, apperrors.Failed("failed to load engagement", err)
	}
	return eng, nil
}

// Videos sets likes_count, is_liked and is_subscribed.
func (e *Enricher) Videos(ctx context.Context, viewerID string, items []models.VideoView) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	owners := make([]string, 0, len(items))
	seen := map[primitive.ObjectID]bool{}
	for i := range items {
		ids[i] = items[i].ID.Hex()
		if !seen[items[i].Owner.ID] {
			seen[items[i].Owner.ID] = true
			owners = append(owners, items[i].Owner.ID.Hex())
		}
	}

	likes, err := e.engagement(ctx, viewerID, models.TargetVideo, ids)
	if err != nil {
		return err
	}
	subs := map[string]models.Engagement{}
	if viewerID != "" {
		if subs, err = e.engagement(ctx, viewerID, models.TargetChannel, owners); err != nil {
			return err
		}
	}

	for i := range items {
		l := likes[ids[i]]
		items[i].LikesCount = l.Count
		items[i].IsLiked = l.ViewerHas
		items[i].IsSubscribed = subs[items[i].Owner.ID.Hex()].ViewerHas
	}
	return nil
}

// Comments sets likes_count and is_liked.
func (e *Enricher) Comments(ctx context.Context, viewerID string, items []models.CommentView) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID.Hex()
	}
	likes, err := e.engagement(ctx, viewerID, models.TargetComment, ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].LikesCount = likes[ids[i]].Count
		items[i].IsLiked = likes[ids[i]].ViewerHas
	}
	return nil
}

// Tweets sets likes_count and is_liked.
func (e *Enricher) Tweets(ctx context.Context, viewerID string, items []models.TweetView) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID.Hex()
	}
	likes, err := e.engagement(ctx, viewerID, models.TargetTweet, ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].LikesCount = likes[ids[i]].Count
		items[i].IsLiked = likes[ids[i]].ViewerHas
	}
	return nil
}

// Channels sets subscribers_count and is_subscribed.
func (e *Enricher) Channels(ctx context.Context, viewerID string, items []models.ChannelSummary) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID.Hex()
	}
	subs, err := e.engagement(ctx, viewerID, models.TargetChannel, ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].SubscribersCount = subs[ids[i]].Count
		items[i].IsSubscribed = subs[ids[i]].ViewerHas
	}
	return nil
}
