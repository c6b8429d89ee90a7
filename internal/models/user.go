package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model   `json:"-"`
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Nickname     string `json:"nickname" gorm:"uniqueIndex"`
	Password     string `json:"-"` // Store hashed password, ignore for JSON serialization
	ProfileImage string `json:"profile_image,omitempty"`
	StatusMsg    string `json:"status_msg,omitempty"`
	FirebaseUID  string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// UserCompact is the trimmed-down user shape embedded in enriched responses
type UserCompact struct {
	ID           uint   `json:"id"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:           u.ID,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
	}
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Nickname     string `json:"nickname,omitempty" validate:"omitempty,min=2,max=20"`
	ProfileImage string `json:"profile_image,omitempty" validate:"omitempty,url"`
	StatusMsg    string `json:"status_msg,omitempty" validate:"omitempty,max=100"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
