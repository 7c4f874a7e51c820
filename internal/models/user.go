package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides shared columns for all tables.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures UUIDs are generated for new records.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User represents an account. Email and phone are unique only among verified
// accounts; multiple unverified rows may exist for the same identity while
// registration attempts are pending.
type User struct {
	BaseModel
	Name            string `json:"name"`
	Email           string `gorm:"index" json:"email"`
	Phone           string `gorm:"index" json:"phone"`
	PasswordHash    string `json:"-"`
	AccountVerified bool   `json:"account_verified"`

	VerificationCode          string     `json:"-"`
	VerificationCodeExpiresAt *time.Time `json:"-"`

	ResetPasswordTokenHash string     `json:"-"`
	ResetPasswordExpiresAt *time.Time `json:"-"`
}
