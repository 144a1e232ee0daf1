package persistent

import (
	"context"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/model"
	"classifieds/services/marketplace/internal/repo"

	"gorm.io/gorm"
)

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) repo.FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) error {
	favoriteModel := &model.FavoriteModel{
		ID:        favorite.ID,
		UserID:    favorite.UserID,
		ListingID: favorite.ListingID,
	}
	if err := r.db.WithContext(ctx).Create(favoriteModel).Error; err != nil {
		return err
	}
	favorite.ID = favoriteModel.ID
	favorite.CreatedAt = favoriteModel.CreatedAt
	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FavoriteModel{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).Count(&count).Error
	return count > 0, err
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, listingID string) error {
	return r.db.WithContext(ctx).Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&model.FavoriteModel{}).Error
}

func (r *favoriteRepository) ListingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.FavoriteModel{}).
		Where("user_id = ?", userID).Order("created_at DESC").Pluck("listing_id", &ids).Error
	return ids, err
}
