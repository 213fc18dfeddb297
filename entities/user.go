package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	IsAdmin         bool       `gorm:"default:false" json:"is_admin"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`

	Wallet *Wallet `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
	Timestamp
}

type Otp struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID  `gorm:"index;not null" json:"user_id"`
	Code      string     `gorm:"not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
