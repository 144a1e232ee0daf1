package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	FromUserID string    `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToUserID   string    `gorm:"type:uuid;not null;index" json:"to_user_id"`
	ListingID  string    `gorm:"type:uuid;not null;index" json:"listing_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type FavoriteModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_listing" json:"user_id"`
	ListingID string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_listing" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (FavoriteModel) TableName() string {
	return "favorites"
}

func (f *FavoriteModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
