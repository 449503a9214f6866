package models

import "time"

// TargetType discriminates what a Relation points at.
type TargetType string

const (
	TargetVideo   TargetType = "video"
	TargetComment TargetType = "comment"
	TargetTweet   TargetType = "tweet"
	TargetChannel TargetType = "channel"
)

// RelationKind is the user-facing meaning of a Relation.
type RelationKind string

const (
	KindLike         RelationKind = "like"
	KindSubscription RelationKind = "subscription"
)

// Valid reports whether t is one of the known target types.
func (t TargetType) Valid() bool {
	switch t {
	case TargetVideo, TargetComment, TargetTweet, TargetChannel:
		return true
	}
	return false
}

// Kind maps a target type to the relation kind it carries.
func (t TargetType) Kind() RelationKind {
	if t == TargetChannel {
		return KindSubscription
	}
	return KindLike
}

// Relation is a like or a subscription. Its existence is the liked/subscribed state;
// at most one row exists per (ActorID, TargetType, TargetID).
type Relation struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ActorID    string     `json:"actor_id" gorm:"size:24;not null;uniqueIndex:idx_relation_key,priority:1"`
	TargetType TargetType `json:"target_type" gorm:"size:16;not null;uniqueIndex:idx_relation_key,priority:2;index:idx_relation_target,priority:1"`
	TargetID   string     `json:"target_id" gorm:"size:24;not null;uniqueIndex:idx_relation_key,priority:3;index:idx_relation_target,priority:2"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RelationKey identifies the single relation an actor may hold on a target.
type RelationKey struct {
	ActorID    string
	TargetType TargetType
	TargetID   string
}

// ToggleState reports what a toggle did.
type ToggleState string

const (
	ToggleCreated ToggleState = "created"
	ToggleRemoved ToggleState = "removed"
)

// ToggleResult is the outcome of flipping a relation.
type ToggleResult struct {
	State    ToggleState  `json:"state"`
	Kind     RelationKind `json:"kind"`
	Relation *Relation    `json:"relation"`
}

// Engagement is the relation aggregate for one target as seen by one viewer.
type Engagement struct {
	Count     int64
	ViewerHas bool
}
