package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCompanionName is the name a companion is created with
const DefaultCompanionName = "클로이"

// ActivityKind is the kind of authored content that feeds companion growth
type ActivityKind string

// Activity kinds. A post weighs twice a comment in the growth score.
const (
	ActivityPost    ActivityKind = "post"
	ActivityComment ActivityKind = "comment"
)

// Companion is the per-user growth pet whose level reflects cumulative
// authored feeds and comments. One companion per user, created lazily.
type Companion struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID           uint               `json:"owner_id" bson:"owner_id"` // unique
	Name              string             `json:"name" bson:"name"`
	Level             int                `json:"level" bson:"level"` // 1..5
	PostCount         int                `json:"post_count" bson:"post_count"`
	CommentCount      int                `json:"comment_count" bson:"comment_count"`
	LastInteractionAt time.Time          `json:"last_interaction_at" bson:"last_interaction_at"`
}

// CompanionAppearance describes how the companion is rendered at a level
type CompanionAppearance struct {
	Image      string `json:"image"`
	Expression string `json:"expression"`
}

// CompanionAppearances maps each level to its image and expression
var CompanionAppearances = map[int]CompanionAppearance{
	1: {Image: "/images/cloi/level1.png", Expression: "sleepy"},
	2: {Image: "/images/cloi/level2.png", Expression: "happy"},
	3: {Image: "/images/cloi/level3.png", Expression: "curious"},
	4: {Image: "/images/cloi/level4.png", Expression: "proud"},
	5: {Image: "/images/cloi/level5.png", Expression: "loving"},
}

// CompanionChatReplies holds the scripted chat reply for each level
var CompanionChatReplies = map[int]string{
	1: "응... (아직 말을 잘 못해요)",
	2: "안녕하세요! 더 친해지고 싶어요!",
	3: "우리 이제 좋은 친구가 되었네요!",
	4: "항상 당신과 함께 있어서 행복해요~",
	5: "우리는 최고의 파트너예요! 앞으로도 함께해요!",
}
