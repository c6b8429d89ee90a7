package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/heartlink-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CompanionRepository defines the interface for companion data operations.
// A companion is keyed by its owning user and created lazily on first access.
type CompanionRepository interface {
	GetOrCreate(ctx context.Context, ownerID uint) (*models.Companion, error)
	IncrementActivity(ctx context.Context, ownerID uint, kind models.ActivityKind) (*models.Companion, error)
	RaiseLevel(ctx context.Context, ownerID uint, level int) error
	Touch(ctx context.Context, ownerID uint) (*models.Companion, error)
}

// MongoCompanionRepository implements CompanionRepository for MongoDB
type MongoCompanionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompanionRepository creates a new MongoCompanionRepository
func NewMongoCompanionRepository(db *mongo.Database) *MongoCompanionRepository {
	return &MongoCompanionRepository{collection: db.Collection("companions")}
}

func companionDefaults() bson.M {
	return bson.M{
		"name":          models.DefaultCompanionName,
		"level":         1,
		"post_count":    0,
		"comment_count": 0,
	}
}

// GetOrCreate returns the owner's companion, creating a level-1 companion
// with zero counters if none exists yet.
func (r *MongoCompanionRepository) GetOrCreate(ctx context.Context, ownerID uint) (*models.Companion, error) {
	defaults := companionDefaults()
	defaults["last_interaction_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": defaults}

	var companion models.Companion
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"owner_id": ownerID}, update, opts).Decode(&companion)
	if err != nil {
		return nil, err
	}
	return &companion, nil
}

// IncrementActivity atomically bumps one activity counter and refreshes the
// interaction timestamp in a single document update, upserting the companion
// if absent. The returned document carries the counters AFTER the increment
// and the level as it was BEFORE this update, which is exactly the snapshot
// level-transition detection needs. Concurrent increments for the same
// companion serialize on the document, so none are lost.
func (r *MongoCompanionRepository) IncrementActivity(ctx context.Context, ownerID uint, kind models.ActivityKind) (*models.Companion, error) {
	var field string
	switch kind {
	case models.ActivityPost:
		field = "post_count"
	case models.ActivityComment:
		field = "comment_count"
	default:
		return nil, fmt.Errorf("unknown activity kind: %s", kind)
	}

	defaults := companionDefaults()
	delete(defaults, field) // $inc creates the incremented field itself on insert

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$inc":         bson.M{field: 1},
		"$set":         bson.M{"last_interaction_at": time.Now()},
		"$setOnInsert": defaults,
	}

	var companion models.Companion
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"owner_id": ownerID}, update, opts).Decode(&companion)
	if err != nil {
		return nil, err
	}
	return &companion, nil
}

// RaiseLevel persists a newly computed level. The $max guard keeps the level
// monotonic even if two concurrent updates race.
func (r *MongoCompanionRepository) RaiseLevel(ctx context.Context, ownerID uint, level int) error {
	update := bson.M{"$max": bson.M{"level": level}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"owner_id": ownerID}, update)
	return err
}

// Touch refreshes the interaction timestamp, e.g. when the user chats with
// their companion. Unlike GetOrCreate it does not create a missing companion.
func (r *MongoCompanionRepository) Touch(ctx context.Context, ownerID uint) (*models.Companion, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"last_interaction_at": time.Now()}}

	var companion models.Companion
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"owner_id": ownerID}, update, opts).Decode(&companion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("companion not found")
		}
		return nil, err
	}
	return &companion, nil
}
