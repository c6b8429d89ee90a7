package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/heartlink-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id string) (*models.Group, error)
	GetGroupsByMember(ctx context.Context, userID uint) ([]models.Group, error)
	AddMember(ctx context.Context, id string, userID uint) error
	RemoveMember(ctx context.Context, id string, userID uint) error
}

// MongoGroupRepository implements GroupRepository for MongoDB
type MongoGroupRepository struct {
	collection *mongo.Collection
}

// NewMongoGroupRepository creates a new MongoGroupRepository
func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	return &MongoGroupRepository{collection: db.Collection("groups")}
}

// CreateGroup creates a new group with the owner as its first member
func (r *MongoGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	group.ID = primitive.NewObjectID()
	group.MemberIDs = []uint{group.OwnerID}
	group.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, group)
	return err
}

// GetGroupByID retrieves a group by ID
func (r *MongoGroupRepository) GetGroupByID(ctx context.Context, id string) (*models.Group, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid group ID format: %w", err)
	}

	var group models.Group
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("group not found")
		}
		return nil, err
	}
	return &group, nil
}

// GetGroupsByMember lists the groups a user belongs to
func (r *MongoGroupRepository) GetGroupsByMember(ctx context.Context, userID uint) ([]models.Group, error) {
	var groups []models.Group
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"member_ids": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember adds a user to a group, without duplicating existing members
func (r *MongoGroupRepository) AddMember(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid group ID format: %w", err)
	}

	update := bson.M{"$addToSet": bson.M{"member_ids": userID}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("group not found")
	}
	return nil
}

// RemoveMember removes a user from a group
func (r *MongoGroupRepository) RemoveMember(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid group ID format: %w", err)
	}

	update := bson.M{"$pull": bson.M{"member_ids": userID}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("group not found")
	}
	return nil
}
