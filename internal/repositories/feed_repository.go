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

// FeedRepository defines the interface for feed data operations
type FeedRepository interface {
	CreateFeed(ctx context.Context, feed *models.Feed) error
	GetFeedByID(ctx context.Context, feedID string) (*models.Feed, error)
	GetFeedsByGroupID(ctx context.Context, groupID string, skip, limit int64) ([]models.Feed, error)
	GetFeedsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Feed, error)
	DeleteFeed(ctx context.Context, feedID string) error
	IncrementCommentCount(ctx context.Context, feedID string) error
	DecrementCommentCount(ctx context.Context, feedID string) error
	SetReactions(ctx context.Context, feedID string, reactions []models.Reaction) error
}

// MongoFeedRepository implements FeedRepository for MongoDB
type MongoFeedRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedRepository creates a new MongoFeedRepository
func NewMongoFeedRepository(db *mongo.Database) *MongoFeedRepository {
	return &MongoFeedRepository{collection: db.Collection("feeds")}
}

// CreateFeed creates a new feed in MongoDB
func (r *MongoFeedRepository) CreateFeed(ctx context.Context, feed *models.Feed) error {
	feed.Status = models.FeedStatusActive
	feed.Reactions = []models.Reaction{}
	feed.CreatedAt = time.Now()
	feed.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, feed)
	return err
}

// GetFeedByID retrieves an active feed by its client-facing feed ID
func (r *MongoFeedRepository) GetFeedByID(ctx context.Context, feedID string) (*models.Feed, error) {
	var feed models.Feed
	err := r.collection.FindOne(ctx, bson.M{"feed_id": feedID, "status": models.FeedStatusActive}).Decode(&feed)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("feed not found")
		}
		return nil, err
	}
	return &feed, nil
}

// GetFeedsByGroupID retrieves a group's active feeds, newest first
func (r *MongoFeedRepository) GetFeedsByGroupID(ctx context.Context, groupID string, skip, limit int64) ([]models.Feed, error) {
	var feeds []models.Feed
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"group_id": groupID, "status": models.FeedStatusActive}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

// GetFeedsByUserID retrieves a user's active feeds, newest first
func (r *MongoFeedRepository) GetFeedsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Feed, error) {
	var feeds []models.Feed
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID, "status": models.FeedStatusActive}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

// DeleteFeed soft-deletes a feed by flipping its status
func (r *MongoFeedRepository) DeleteFeed(ctx context.Context, feedID string) error {
	update := bson.M{"$set": bson.M{"status": models.FeedStatusDeleted, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"feed_id": feedID, "status": models.FeedStatusActive}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("feed not found")
	}
	return nil
}

// IncrementCommentCount increments the comment counter of a feed
func (r *MongoFeedRepository) IncrementCommentCount(ctx context.Context, feedID string) error {
	update := bson.M{"$inc": bson.M{"comment_count": 1}, "$set": bson.M{"updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"feed_id": feedID}, update)
	return err
}

// DecrementCommentCount decrements the comment counter of a feed, floored at zero
func (r *MongoFeedRepository) DecrementCommentCount(ctx context.Context, feedID string) error {
	update := bson.M{"$inc": bson.M{"comment_count": -1}, "$set": bson.M{"updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"feed_id": feedID, "comment_count": bson.M{"$gt": 0}}, update)
	return err
}

// SetReactions replaces the reaction list of a feed
func (r *MongoFeedRepository) SetReactions(ctx context.Context, feedID string, reactions []models.Reaction) error {
	update := bson.M{"$set": bson.M{"reactions": reactions, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"feed_id": feedID}, update)
	return err
}
