package models

import "time"

// Device is a push-delivery endpoint registered from one of the user's devices.
// The (user_id, device) pair is unique: re-registration from the same device
// replaces the previous push token instead of adding a duplicate row.
type Device struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_device"`
	Device    string    `json:"device" gorm:"size:100;uniqueIndex:idx_user_device"` // originating device identifier
	PushToken string    `json:"push_token"`                                         // FCM registration token, may be empty
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterDeviceRequest defines the request body for registering a push token
type RegisterDeviceRequest struct {
	Device    string `json:"device" validate:"required,min=1,max=100"`
	PushToken string `json:"push_token" validate:"required"`
}
