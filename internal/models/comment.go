package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a video
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Video     primitive.ObjectID `json:"video" bson:"video"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CommentView is a comment joined with its owner and enriched for one viewer.
type CommentView struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Content    string             `json:"content" bson:"content"`
	Video      primitive.ObjectID `json:"video" bson:"video"`
	Owner      OwnerSummary       `json:"owner" bson:"owner"`
	LikesCount int64              `json:"likes_count" bson:"-"`
	IsLiked    bool               `json:"is_liked" bson:"-"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// ContentRequest defines the request body for creating or updating a comment or tweet
type ContentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
