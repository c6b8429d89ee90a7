package repositories

import (
	"github.com/heartlink-app/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friend-request operations
type FriendshipRepository interface {
	CreateRequest(request *models.FriendRequest) error
	GetRequestByID(id uint) (*models.FriendRequest, error)
	GetPendingRequestBetween(senderID, receiverID uint) (*models.FriendRequest, error)
	GetPendingForReceiver(receiverID uint) ([]models.FriendRequest, error)
	UpdateRequest(request *models.FriendRequest) error
	GetFriendIDs(userID uint) ([]uint, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// CreateRequest creates a new friend request
func (r *PostgresFriendshipRepository) CreateRequest(request *models.FriendRequest) error {
	return r.db.Create(request).Error
}

// GetRequestByID retrieves a friend request by ID
func (r *PostgresFriendshipRepository) GetRequestByID(id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// GetPendingRequestBetween finds a pending request in either direction between two users
func (r *PostgresFriendshipRepository) GetPendingRequestBetween(senderID, receiverID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.Where(
		"status = 'pending' AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
		senderID, receiverID, receiverID, senderID,
	).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetPendingForReceiver lists pending requests addressed to a user
func (r *PostgresFriendshipRepository) GetPendingForReceiver(receiverID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.Where("receiver_id = ? AND status = 'pending'", receiverID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateRequest updates an existing friend request
func (r *PostgresFriendshipRepository) UpdateRequest(request *models.FriendRequest) error {
	return r.db.Save(request).Error
}

// GetFriendIDs returns the user IDs of everyone the given user has an accepted request with
func (r *PostgresFriendshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var requests []models.FriendRequest
	err := r.db.Where("status = 'accepted' AND (sender_id = ? OR receiver_id = ?)", userID, userID).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	friendIDs := make([]uint, 0, len(requests))
	for _, req := range requests {
		if req.SenderID == userID {
			friendIDs = append(friendIDs, req.ReceiverID)
		} else {
			friendIDs = append(friendIDs, req.SenderID)
		}
	}
	return friendIDs, nil
}
