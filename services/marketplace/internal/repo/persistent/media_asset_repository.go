package persistent

import (
	"context"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/model"
	"classifieds/services/marketplace/internal/repo"

	"gorm.io/gorm"
)

type mediaAssetRepository struct {
	db *gorm.DB
}

func NewMediaAssetRepository(db *gorm.DB) repo.MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

func (r *mediaAssetRepository) Create(ctx context.Context, asset *entity.MediaAsset) error {
	assetModel := ToMediaAssetModel(asset)
	if err := r.db.WithContext(ctx).Create(assetModel).Error; err != nil {
		return err
	}
	*asset = *ToMediaAssetEntity(assetModel)
	return nil
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, id string) (*entity.MediaAsset, error) {
	var assetModel model.MediaAssetModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&assetModel).Error; err != nil {
		return nil, notFound(err, "media asset")
	}
	return ToMediaAssetEntity(&assetModel), nil
}

func (r *mediaAssetRepository) List(ctx context.Context, status entity.WatermarkStatus) ([]*entity.MediaAsset, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("watermark_status = ?", string(status))
	}

	var assetModels []model.MediaAssetModel
	if err := query.Find(&assetModels).Error; err != nil {
		return nil, err
	}

	assets := make([]*entity.MediaAsset, len(assetModels))
	for i := range assetModels {
		assets[i] = ToMediaAssetEntity(&assetModels[i])
	}
	return assets, nil
}

func (r *mediaAssetRepository) UpdateWatermark(ctx context.Context, id string, status entity.WatermarkStatus, errText string) error {
	res := r.db.WithContext(ctx).Model(&model.MediaAssetModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"watermark_status": string(status),
		"watermark_error":  errText,
	})
	return requireAffected(res, "media asset")
}

func (r *mediaAssetRepository) SetMirrorURL(ctx context.Context, id, url string) error {
	res := r.db.WithContext(ctx).Model(&model.MediaAssetModel{}).Where("id = ?", id).Update("mirror_url", url)
	return requireAffected(res, "media asset")
}

func (r *mediaAssetRepository) AttachToListing(ctx context.Context, ownerID string, names []string, listingID string) error {
	if len(names) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.MediaAssetModel{}).
		Where("name IN ? AND owner_id = ?", names, ownerID).
		Where("listing_id IS NULL OR listing_id = ?", listingID).
		Update("listing_id", listingID).Error
}
