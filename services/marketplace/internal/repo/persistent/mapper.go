package persistent

import (
	"encoding/json"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/model"

	"gorm.io/datatypes"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:            m.ID,
		Email:         m.Email,
		Name:          m.Name,
		Password:      m.Password,
		Role:          entity.Role(m.Role),
		VerifiedBadge: m.VerifiedBadge,
		VIPStatus:     m.VIPStatus,
		VIPExpiry:     m.VIPExpiry,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:            e.ID,
		Email:         e.Email,
		Name:          e.Name,
		Password:      e.Password,
		Role:          string(e.Role),
		VerifiedBadge: e.VerifiedBadge,
		VIPStatus:     e.VIPStatus,
		VIPExpiry:     e.VIPExpiry,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ToListingEntity(m *model.ListingModel) *entity.Listing {
	if m == nil {
		return nil
	}

	return &entity.Listing{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Location: entity.Location{
			Country:  m.LocationCountry,
			Region:   m.LocationRegion,
			City:     m.LocationCity,
			District: m.LocationDistrict,
		},
		Category:     m.Category,
		Phone:        m.Phone,
		Email:        m.Email,
		Images:       decodeList[string](m.Images),
		Videos:       decodeList[string](m.Videos),
		PricingTiers: decodeList[entity.PricingTier](m.PricingTiers),
		Services:     decodeList[string](m.Services),
		UserID:       m.UserID,
		UserName:     m.UserName,
		Featured:     m.Featured,
		Status:       entity.ListingStatus(m.Status),
		Views:        m.Views,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToListingModel(e *entity.Listing) *model.ListingModel {
	if e == nil {
		return nil
	}

	return &model.ListingModel{
		ID:               e.ID,
		UserID:           e.UserID,
		UserName:         e.UserName,
		Title:            e.Title,
		Description:      e.Description,
		Price:            e.Price,
		LocationCountry:  e.Location.Country,
		LocationRegion:   e.Location.Region,
		LocationCity:     e.Location.City,
		LocationDistrict: e.Location.District,
		Category:         e.Category,
		Phone:            e.Phone,
		Email:            e.Email,
		Images:           encodeList(e.Images),
		Videos:           encodeList(e.Videos),
		PricingTiers:     encodeList(e.PricingTiers),
		Services:         encodeList(e.Services),
		Featured:         e.Featured,
		Status:           string(e.Status),
		Views:            e.Views,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToMessageEntity(m *model.MessageModel) *entity.Message {
	if m == nil {
		return nil
	}

	return &entity.Message{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		ListingID:  m.ListingID,
		Content:    m.Content,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

func ToMessageModel(e *entity.Message) *model.MessageModel {
	if e == nil {
		return nil
	}

	return &model.MessageModel{
		ID:         e.ID,
		FromUserID: e.FromUserID,
		ToUserID:   e.ToUserID,
		ListingID:  e.ListingID,
		Content:    e.Content,
		Read:       e.Read,
		CreatedAt:  e.CreatedAt,
	}
}

func ToMediaAssetEntity(m *model.MediaAssetModel) *entity.MediaAsset {
	if m == nil {
		return nil
	}

	asset := &entity.MediaAsset{
		ID:              m.ID,
		Name:            m.Name,
		Path:            m.Path,
		URL:             m.URL,
		Extension:       m.Extension,
		Kind:            entity.MediaKind(m.Kind),
		Size:            m.Size,
		OwnerID:         m.OwnerID,
		WatermarkStatus: entity.WatermarkStatus(m.WatermarkStatus),
		WatermarkError:  m.WatermarkError,
		MirrorURL:       m.MirrorURL,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.ListingID != nil {
		asset.ListingID = *m.ListingID
	}
	return asset
}

func ToMediaAssetModel(e *entity.MediaAsset) *model.MediaAssetModel {
	if e == nil {
		return nil
	}

	m := &model.MediaAssetModel{
		ID:              e.ID,
		Name:            e.Name,
		Path:            e.Path,
		URL:             e.URL,
		Extension:       e.Extension,
		Kind:            string(e.Kind),
		Size:            e.Size,
		OwnerID:         e.OwnerID,
		WatermarkStatus: string(e.WatermarkStatus),
		WatermarkError:  e.WatermarkError,
		MirrorURL:       e.MirrorURL,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.ListingID != "" {
		m.ListingID = &e.ListingID
	}
	return m
}

func encodeList[T any](items []T) datatypes.JSON {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}

func decodeList[T any](data datatypes.JSON) []T {
	items := []T{}
	if len(data) == 0 {
		return items
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}
	}
	return items
}
