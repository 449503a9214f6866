package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaHandle is the reference returned by the media service for an uploaded object.
type MediaHandle struct {
	URL      string  `json:"url" validate:"required,url"`
	Duration float64 `json:"duration" validate:"gte=0"`
}

// Video is a catalog entry stored in MongoDB.
type Video struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	VideoFile   string             `json:"video_file" bson:"video_file"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	Duration    float64            `json:"duration" bson:"duration"`
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"is_published" bson:"is_published"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// VideoView is a video joined with its owner and enriched for one viewer.
type VideoView struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	VideoFile    string             `json:"video_file" bson:"video_file"`
	Thumbnail    string             `json:"thumbnail" bson:"thumbnail"`
	Duration     float64            `json:"duration" bson:"duration"`
	Views        int64              `json:"views" bson:"views"`
	IsPublished  bool               `json:"is_published" bson:"is_published"`
	Owner        OwnerSummary       `json:"owner" bson:"owner"`
	LikesCount   int64              `json:"likes_count" bson:"-"`
	IsLiked      bool               `json:"is_liked" bson:"-"`
	IsSubscribed bool               `json:"is_subscribed" bson:"-"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// NewVideoView joins a video with an already loaded owner summary.
func NewVideoView(v *Video, owner OwnerSummary) VideoView {
	return VideoView{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		Owner:       owner,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// VideoFilter selects videos for a listing.
type VideoFilter struct {
	Query              string
	OwnerID            primitive.ObjectID
	IncludeUnpublished bool
}

// VideoPatch holds the optional fields of a video update.
type VideoPatch struct {
	Title       *string
	Description *string
	Thumbnail   *string
}

// Empty reports whether the patch changes nothing.
func (p VideoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Thumbnail == nil
}

// ChannelStats summarizes a channel for its owner's dashboard.
type ChannelStats struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalLikes       int64 `json:"total_likes"`
	TotalSubscribers int64 `json:"total_subscribers"`
}

// CreateVideoRequest defines the request body for publishing a video
type CreateVideoRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=200"`
	Description string      `json:"description" validate:"required,min=1,max=5000"`
	VideoFile   MediaHandle `json:"video_file" validate:"required"`
	Thumbnail   MediaHandle `json:"thumbnail" validate:"required"`
	IsPublished *bool       `json:"is_published,omitempty"`
}

// UpdateVideoRequest defines the request body for updating video details
type UpdateVideoRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,min=1,max=5000"`
	Thumbnail   *MediaHandle `json:"thumbnail,omitempty"`
}
