package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feed statuses
const (
	FeedStatusActive  = "active"
	FeedStatusDeleted = "deleted"
)

// ReactionEmojis maps a reaction type to the emoji rendered in clients
// and in notification messages.
var ReactionEmojis = map[string]string{
	"like":  "👍",
	"love":  "❤️",
	"laugh": "😂",
	"wow":   "😮",
	"sad":   "😢",
}

// Reaction is a single user's reaction on a feed, stored as a subdocument
type Reaction struct {
	UserID    uint      `json:"user_id" bson:"user_id"`
	Type      string    `json:"type" bson:"type"`
	Emoji     string    `json:"emoji" bson:"emoji"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// FeedImage is an attached image, flagged when it came from the AI generator
type FeedImage struct {
	URL           string `json:"url" bson:"url"`
	IsAIGenerated bool   `json:"is_ai_generated" bson:"is_ai_generated"`
}

// Feed represents a group-scoped post stored in MongoDB
type Feed struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FeedID       string             `json:"feed_id" bson:"feed_id"` // client-facing identifier
	UserID       uint               `json:"user_id" bson:"user_id"`
	GroupID      string             `json:"group_id,omitempty" bson:"group_id,omitempty"`
	Content      string             `json:"content" bson:"content"`
	Images       []FeedImage        `json:"images,omitempty" bson:"images,omitempty"`
	Status       string             `json:"status" bson:"status"`
	CommentCount int                `json:"comment_count" bson:"comment_count"`
	Reactions    []Reaction         `json:"reactions" bson:"reactions"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// ApplyReaction toggles a user's reaction on a feed's reaction list.
// A user holds at most one active reaction per feed: submitting the same type
// again removes it, submitting a different type replaces the existing one.
// It returns the updated list and whether a reaction was added (as opposed
// to removed), which decides if the feed owner gets notified.
func ApplyReaction(reactions []Reaction, userID uint, reactionType string, now time.Time) ([]Reaction, bool) {
	kept := make([]Reaction, 0, len(reactions))
	hadSameType := false
	for _, r := range reactions {
		if r.UserID == userID {
			if r.Type == reactionType {
				hadSameType = true
			}
			continue // drop any prior reaction from this user
		}
		kept = append(kept, r)
	}

	if hadSameType {
		return kept, false
	}

	kept = append(kept, Reaction{
		UserID:    userID,
		Type:      reactionType,
		Emoji:     ReactionEmojis[reactionType],
		CreatedAt: now,
	})
	return kept, true
}

// CreateFeedRequest defines the request body for creating a new feed
type CreateFeedRequest struct {
	Content string      `json:"content" validate:"required,min=1,max=2000"`
	GroupID string      `json:"group_id,omitempty"`
	Images  []FeedImage `json:"images,omitempty" validate:"omitempty,dive"`
}

// ReactionRequest defines the request body for toggling a reaction on a feed
type ReactionRequest struct {
	Type string `json:"type" validate:"required,oneof=like love laugh wow sad"`
}
