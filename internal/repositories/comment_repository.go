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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error)
	GetCommentsByFeedID(ctx context.Context, feedID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment creates a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.Status = "active"
	comment.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves an active comment by its client-facing comment ID
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOne(ctx, bson.M{"comment_id": commentID, "status": "active"}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("comment not found")
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByFeedID retrieves all active comments on a feed, oldest first
func (r *MongoCommentRepository) GetCommentsByFeedID(ctx context.Context, feedID string) ([]models.Comment, error) {
	var comments []models.Comment
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"feed_id": feedID, "status": "active"}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment soft-deletes a comment by flipping its status
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, commentID string) error {
	update := bson.M{"$set": bson.M{"status": "deleted"}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"comment_id": commentID, "status": "active"}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment not found")
	}
	return nil
}
