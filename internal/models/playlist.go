package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Playlist is an ordered, duplicate-free list of videos owned by one user.
type Playlist struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Owner       primitive.ObjectID   `json:"owner" bson:"owner"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Videos      []primitive.ObjectID `json:"videos" bson:"videos"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}

// Contains reports whether videoID is already a member.
func (p *Playlist) Contains(videoID primitive.ObjectID) bool {
	for _, id := range p.Videos {
		if id == videoID {
			return true
		}
	}
	return false
}

// PlaylistView is a playlist with its member videos resolved for one viewer.
type PlaylistView struct {
	Playlist
	Items []VideoView `json:"items"`
}

// PlaylistPatch holds the optional fields of a playlist update.
type PlaylistPatch struct {
	Name        *string
	Description *string
}

// CreatePlaylistRequest defines the request body for creating a playlist
type CreatePlaylistRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdatePlaylistRequest defines the request body for renaming or describing a playlist
type UpdatePlaylistRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
