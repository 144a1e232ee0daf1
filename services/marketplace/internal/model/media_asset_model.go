package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MediaAssetModel struct {
	ID              string    `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Path            string    `gorm:"type:varchar(1024);not null" json:"path"`
	URL             string    `gorm:"type:varchar(1024);not null" json:"url"`
	Extension       string    `gorm:"type:varchar(20)" json:"extension"`
	Kind            string    `gorm:"type:varchar(20);not null" json:"kind"`
	Size            int64     `json:"size"`
	OwnerID         string    `gorm:"type:uuid;index" json:"owner_id"`
	ListingID       *string   `gorm:"type:uuid;index" json:"listing_id"`
	WatermarkStatus string    `gorm:"type:varchar(20);not null;index" json:"watermark_status"`
	WatermarkError  string    `gorm:"type:text" json:"watermark_error"`
	MirrorURL       string    `gorm:"type:varchar(1024)" json:"mirror_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (MediaAssetModel) TableName() string {
	return "media_assets"
}

func (m *MediaAssetModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// All returns every model for AutoMigrate in tests.
func All() []interface{} {
	return []interface{}{&UserModel{}, &ListingModel{}, &MessageModel{}, &FavoriteModel{}, &MediaAssetModel{}}
}
