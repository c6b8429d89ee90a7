package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a feed, stored in MongoDB
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CommentID string             `json:"comment_id" bson:"comment_id"` // client-facing identifier
	FeedID    string             `json:"feed_id" bson:"feed_id"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Content   string             `json:"content" bson:"content"`
	Status    string             `json:"status" bson:"status"` // "active" or "deleted"
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
