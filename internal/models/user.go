package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a channel owner and viewer stored in MongoDB.
type User struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email" bson:"email"`
	FullName     string               `json:"full_name" bson:"full_name"`
	Avatar       string               `json:"avatar" bson:"avatar"`
	CoverImage   string               `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	FirebaseUID  string               `json:"-" bson:"firebase_uid,omitempty"`
	Password     string               `json:"-" bson:"password,omitempty"`
	RefreshToken string               `json:"-" bson:"refresh_token,omitempty"`
	WatchHistory []primitive.ObjectID `json:"-" bson:"watch_history"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}

// OwnerSummary is the public slice of a User joined into videos, comments and tweets.
type OwnerSummary struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	FullName string             `json:"full_name" bson:"full_name"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}

// ToSummary strips everything but the public profile fields.
func (u *User) ToSummary() OwnerSummary {
	return OwnerSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

// ChannelProfile is a user seen as a channel by a (possibly anonymous) viewer.
type ChannelProfile struct {
	OwnerSummary
	CoverImage        string `json:"cover_image,omitempty"`
	SubscribersCount  int64  `json:"subscribers_count"`
	SubscribedToCount int64  `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// ChannelSummary is one row of a subscribers or subscriptions listing.
type ChannelSummary struct {
	OwnerSummary
	SubscribersCount int64 `json:"subscribers_count"`
	IsSubscribed     bool  `json:"is_subscribed"`
}

// JwtCustomClaims are the claims carried by bearer tokens issued by the auth service.
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
