package services

import (
	"errors"
	"fmt"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deps are the repositories every service is built from.
type Deps struct {
	Users     repositories.UserRepository
	Videos    repositories.VideoRepository
	Comments  repositories.CommentRepository
	Tweets    repositories.TweetRepository
	Playlists repositories.PlaylistRepository
	Relations repositories.RelationRepository

	WatchHistoryLimit int
}

// Services bundles the application services wired to one set of repositories.
type Services struct {
	Relations *RelationService
	Feeds     *FeedService
	History   *HistoryService
	Playlists *PlaylistService
	Videos    *VideoService
	Comments  *CommentService
	Tweets    *TweetService
	Channels  *ChannelService
}

func New(d Deps) *Services {
	enricher := NewEnricher(d.Relations)
	history := NewHistoryService(d.Users, d.Videos, enricher, d.WatchHistoryLimit)
	return &Services{
		Relations: NewRelationService(d.Relations, d.Users, d.Videos, d.Comments, d.Tweets),
		Feeds:     NewFeedService(d.Users, d.Videos, d.Comments, d.Tweets, d.Relations, enricher),
		History:   history,
		Playlists: NewPlaylistService(d.Playlists, d.Videos, enricher),
		Videos:    NewVideoService(d.Videos, d.Comments, d.Playlists, d.Relations, history, enricher),
		Comments:  NewCommentService(d.Comments, d.Videos, d.Relations),
		Tweets:    NewTweetService(d.Tweets, d.Relations),
		Channels:  NewChannelService(d.Users, d.Videos, d.Relations),
	}
}

func parseID(raw, resource string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.Newf(apperrors.InvalidInput, "invalid %s id", resource)
	}
	return id, nil
}

// requireActor resolves the authenticated user; anonymous callers are rejected.
func requireActor(actorID string) (primitive.ObjectID, error) {
	if actorID == "" {
		return primitive.NilObjectID, apperrors.Unauthorized("authentication required")
	}
	id, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return primitive.NilObjectID, apperrors.Unauthorized("invalid user identity")
	}
	return id, nil
}

// storeError maps a repository error: ErrNotFound becomes NotFound for resource,
// anything else OperationFailed.
func storeError(err error, resource, op string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFoundf(resource)
	}
	return apperrors.Failed(fmt.Sprintf("failed to %s", op), err)
}

// visibleTo reports whether viewerID may see v: published, or their own.
func visibleTo(published bool, owner primitive.ObjectID, viewerID string) bool {
	return published || (viewerID != "" && owner.Hex() == viewerID)
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// objectIDs parses ids stored as hex; rows with malformed ids are skipped.
func objectIDs(hex []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(hex))
	for _, h := range hex {
		if id, err := primitive.ObjectIDFromHex(h); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// orderVideos returns views in the order of ids, dropping ids with no view.
func orderVideos(ids []primitive.ObjectID, views []models.VideoView) []models.VideoView {
	byID := make(map[primitive.ObjectID]models.VideoView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	out := make([]models.VideoView, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// visibleVideos keeps the views viewerID may see, preserving order.
func visibleVideos(views []models.VideoView, viewerID string) []models.VideoView {
	out := make([]models.VideoView, 0, len(views))
	for _, v := range views {
		if visibleTo(v.IsPublished, v.Owner.ID, viewerID) {
			out = append(out, v)
		}
	}
	return out
}

// slicePage returns the part of items that falls on page.
func slicePage[T any](items []T, page models.PageRequest) []T {
	start := page.Offset()
	if start >= int64(len(items)) {
		return nil
	}
	end := start + int64(page.PageSize)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[start:end]
}
