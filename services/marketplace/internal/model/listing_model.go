package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ListingModel struct {
	ID               string         `gorm:"type:uuid;primary_key" json:"id"`
	UserID           string         `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName         string         `gorm:"type:varchar(255)" json:"user_name"`
	Title            string         `gorm:"type:varchar(255);not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Price            float64        `gorm:"not null;index" json:"price"`
	LocationCountry  string         `gorm:"type:varchar(100)" json:"location_country"`
	LocationRegion   string         `gorm:"type:varchar(100)" json:"location_region"`
	LocationCity     string         `gorm:"type:varchar(100)" json:"location_city"`
	LocationDistrict string         `gorm:"type:varchar(100)" json:"location_district"`
	Category         string         `gorm:"type:varchar(100);index" json:"category"`
	Phone            string         `gorm:"type:varchar(50)" json:"phone"`
	Email            string         `gorm:"type:varchar(255)" json:"email"`
	Images           datatypes.JSON `json:"images"`
	Videos           datatypes.JSON `json:"videos"`
	PricingTiers     datatypes.JSON `json:"pricing_tiers"`
	Services         datatypes.JSON `json:"services"`
	Featured         bool           `gorm:"default:false;index" json:"featured"`
	Status           string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Views            int            `gorm:"default:0" json:"views"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ListingModel) TableName() string {
	return "listings"
}

func (l *ListingModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
