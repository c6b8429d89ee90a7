package repositories

import (
	"github.com/heartlink-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceRepository defines the interface for push-endpoint registration
type DeviceRepository interface {
	RegisterDevice(userID uint, device, pushToken string) error
	GetPushTokens(userID uint) ([]string, error)
	RemoveDevice(userID uint, device string) error
}

// PostgresDeviceRepository implements DeviceRepository for PostgreSQL
type PostgresDeviceRepository struct {
	db *gorm.DB
}

// NewPostgresDeviceRepository creates a new PostgresDeviceRepository
func NewPostgresDeviceRepository(db *gorm.DB) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{db: db}
}

// RegisterDevice upserts the push token for a (user, device) pair.
// Last writer wins: registering again from the same device replaces the
// prior token instead of creating a duplicate row.
func (r *PostgresDeviceRepository) RegisterDevice(userID uint, device, pushToken string) error {
	row := models.Device{
		UserID:    userID,
		Device:    device,
		PushToken: pushToken,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "device"}},
		DoUpdates: clause.AssignmentColumns([]string{"push_token", "updated_at"}),
	}).Create(&row).Error
}

// GetPushTokens returns the non-empty push tokens across all of a user's devices
func (r *PostgresDeviceRepository) GetPushTokens(userID uint) ([]string, error) {
	var tokens []string
	err := r.db.Model(&models.Device{}).
		Where("user_id = ? AND push_token <> ''", userID).
		Pluck("push_token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// RemoveDevice deletes a device registration
func (r *PostgresDeviceRepository) RemoveDevice(userID uint, device string) error {
	return r.db.Where("user_id = ? AND device = ?", userID, device).Delete(&models.Device{}).Error
}
