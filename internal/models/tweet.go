package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// TweetView is a tweet joined with its owner and enriched for one viewer.
type TweetView struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Content    string             `json:"content" bson:"content"`
	Owner      OwnerSummary       `json:"owner" bson:"owner"`
	LikesCount int64              `json:"likes_count" bson:"-"`
	IsLiked    bool               `json:"is_liked" bson:"-"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}
