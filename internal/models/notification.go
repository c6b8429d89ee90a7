package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types (closed enum)
const (
	NotificationFriendRequest = "friend_request"
	NotificationComment       = "comment"
	NotificationLevelUp       = "level_up"
	NotificationReaction      = "reaction"
	NotificationEtc           = "etc"
)

// ValidNotificationType reports whether t is one of the closed enum values
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationFriendRequest, NotificationComment, NotificationLevelUp, NotificationReaction, NotificationEtc:
		return true
	}
	return false
}

// NotificationReference points back at the content that triggered the
// notification. The populated fields depend on the notification type:
// comments carry feed and comment IDs, reactions carry feed ID and
// reaction type/emoji.
type NotificationReference struct {
	FeedID       string `json:"feed_id,omitempty" bson:"feed_id,omitempty"`
	CommentID    string `json:"comment_id,omitempty" bson:"comment_id,omitempty"`
	ReactionType string `json:"reaction_type,omitempty" bson:"reaction_type,omitempty"`
	Emoji        string `json:"emoji,omitempty" bson:"emoji,omitempty"`
}

// Notification is a durable per-recipient notification record. Immutable
// once created except for the is_read flag.
type Notification struct {
	ID          primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientID uint                   `json:"recipient_id" bson:"recipient_id"`
	ActorID     *uint                  `json:"actor_id,omitempty" bson:"actor_id,omitempty"` // absent for system events
	Message     string                 `json:"message" bson:"message"`
	Type        string                 `json:"type" bson:"type"`
	IsRead      bool                   `json:"is_read" bson:"is_read"`
	Reference   *NotificationReference `json:"reference,omitempty" bson:"reference,omitempty"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
}
