package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group represents a circle of users sharing a feed timeline
type Group struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     uint               `json:"owner_id" bson:"owner_id"`
	MemberIDs   []uint             `json:"member_ids" bson:"member_ids"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// HasMember reports whether the given user belongs to the group
func (g *Group) HasMember(userID uint) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateGroupRequest defines the request body for creating a group
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description,omitempty" validate:"omitempty,max=200"`
}
