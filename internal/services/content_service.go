package services

import (
	"context"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.Invalid("content is required")
	}
	return content, nil
}

// CommentService handles comment writes. Only a comment's author may change it.
type CommentService struct {
	comments  repositories.CommentRepository
	videos    repositories.VideoRepository
	relations repositories.RelationRepository
}

func NewCommentService(comments repositories.CommentRepository, videos repositories.VideoRepository, relations repositories.RelationRepository) *CommentService {
	return &CommentService{comments: comments, videos: videos, relations: relations}
}

func (s *CommentService) Create(ctx context.Context, actorID, videoID, content string) (*models.Comment, error) {
	actor, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	vid, err := parseID(videoID, "video")
	if err != nil {
		return nil, err
	}
	if content, err = cleanContent(content); err != nil {
		return nil, err
	}
	video, err := s.videos.GetByID(ctx, vid)
	if err != nil {
		return nil, storeError(err, "Video", "load video")
	}
	if !visibleTo(video.IsPublished, video.Owner, actorID) {
		return nil, apperrors.NotFoundf("Video")
	}

	comment := &models.Comment{Content: content, Video: vid, Owner: actor}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.Failed("failed to add comment", err)
	}
	return comment, nil
}

func (s *CommentService) owned(ctx context.Context, actorID, commentID string) (*models.Comment, error) {
	actor, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	id, err := parseID(commentID, "comment")
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Comment", "load comment")
	}
	if comment.Owner != actor {
		return nil, apperrors.New(apperrors.Forbidden, "you can only modify your own comments")
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actorID, commentID, content string) (*models.Comment, error) {
	comment, err := s.owned(ctx, actorID, commentID)
	if err != nil {
		return nil, err
	}
	if content, err = cleanContent(content); err != nil {
		return nil, err
	}
	updated, err := s.comments.UpdateContent(ctx, comment.ID, content)
	if err != nil {
		return nil, storeError(err, "Comment", "update comment")
	}
	return updated, nil
}

// Delete removes the comment and its likes.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID string) error {
	comment, err := s.owned(ctx, actorID, commentID)
	if err != nil {
		return err
	}
	return deleteWithLikes(ctx, s.relations, models.TargetComment, comment.ID, func() error {
		if err := s.comments.Delete(ctx, comment.ID); err != nil {
			return storeError(err, "Comment", "delete comment")
		}
		return nil
	})
}

// TweetService handles tweet writes. Only a tweet's author may change it.
type TweetService struct {
	tweets    repositories.TweetRepository
	relations repositories.RelationRepository
}

func NewTweetService(tweets repositories.TweetRepository, relations repositories.RelationRepository) *TweetService {
	return &TweetService{tweets: tweets, relations: relations}
}

func (s *TweetService) Create(ctx context.Context, actorID, content string) (*models.Tweet, error) {
	actor, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	if content, err = cleanContent(content); err != nil {
		return nil, err
	}
	tweet := &models.Tweet{Content: content, Owner: actor}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, apperrors.Failed("failed to create tweet", err)
	}
	return tweet, nil
}

func (s *TweetService) owned(ctx context.Context, actorID, tweetID string) (*models.Tweet, error) {
	actor, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	id, err := parseID(tweetID, "tweet")
	if err != nil {
		return nil, err
	}
	tweet, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Tweet", "load tweet")
	}
	if tweet.Owner != actor {
		return nil, apperrors.New(apperrors.Forbidden, "you can only modify your own tweets")
	}
	return tweet, nil
}

func (s *TweetService) Update(ctx context.Context, actorID, tweetID, content string) (*models.Tweet, error) {
	tweet, err := s.owned(ctx, actorID, tweetID)
	if err != nil {
		return nil, err
	}
	if content, err = cleanContent(content); err != nil {
		return nil, err
	}
	updated, err := s.tweets.UpdateContent(ctx, tweet.ID, content)
	if err != nil {
		return nil, storeError(err, "Tweet", "update tweet")
	}
	return updated, nil
}

func (s *TweetService) Delete(ctx context.Context, actorID, tweetID string) error {
	tweet, err := s.owned(ctx, actorID, tweetID)
	if err != nil {
		return err
	}
	return deleteWithLikes(ctx, s.relations, models.TargetTweet, tweet.ID, func() error {
		if err := s.tweets.Delete(ctx, tweet.ID); err != nil {
			return storeError(err, "Tweet", "delete tweet")
		}
		return nil
	})
}

// deleteWithLikes drops the likes on a target, then the target itself.
func deleteWithLikes(ctx context.Context, relations repositories.RelationRepository, tt models.TargetType, id primitive.ObjectID, deleteTarget func() error) error {
	if _, err := relations.DeleteByTargets(ctx, tt, []string{id.Hex()}); err != nil {
		return apperrors.Failed("failed to remove likes", err)
	}
	return deleteTarget()
}
