package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	ID            string         `gorm:"type:uuid;primary_key" json:"id"`
	Email         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Password      string         `gorm:"type:varchar(255);not null" json:"-"`
	Role          string         `gorm:"type:varchar(20);default:'user'" json:"role"`
	VerifiedBadge bool           `gorm:"default:false" json:"verified_badge"`
	VIPStatus     bool           `gorm:"column:vip_status;default:false" json:"vip_status"`
	VIPExpiry     *time.Time     `gorm:"column:vip_expiry" json:"vip_expiry"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
