package usecase

import (
	"context"
	"fmt"

	"classifieds/pkg/logger"
	"classifieds/pkg/queue"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

type MediaUseCase interface {
	ListMedia(ctx context.Context, actor entity.Actor, status entity.WatermarkStatus) ([]*entity.MediaAsset, error)
	// Reprocess re-enqueues an asset whose watermark failed. Only failed
	// assets qualify: their bytes are still the untouched original.
	Reprocess(ctx context.Context, actor entity.Actor, assetID string) (*entity.MediaAsset, error)
}

type mediaUseCase struct {
	assets    repo.MediaAssetRepository
	publisher queue.Publisher
	logger    *logger.Logger
}

func NewMediaUseCase(assets repo.MediaAssetRepository, publisher queue.Publisher, logger *logger.Logger) MediaUseCase {
	return &mediaUseCase{assets: assets, publisher: publisher, logger: logger}
}

func (uc *mediaUseCase) ListMedia(ctx context.Context, actor entity.Actor, status entity.WatermarkStatus) ([]*entity.MediaAsset, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown watermark status %q: %w", status, entity.ErrValidation)
	}
	return uc.assets.List(ctx, status)
}

func (uc *mediaUseCase) Reprocess(ctx context.Context, actor entity.Actor, assetID string) (*entity.MediaAsset, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	asset, err := uc.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.WatermarkStatus != entity.WatermarkFailed {
		return nil, fmt.Errorf("asset %s is %s, only failed assets can be reprocessed: %w", assetID, asset.WatermarkStatus, entity.ErrValidation)
	}

	if err := uc.assets.UpdateWatermark(ctx, assetID, entity.WatermarkPending, ""); err != nil {
		return nil, err
	}

	job := queue.WatermarkJob{AssetID: asset.ID, Path: asset.Path, Kind: string(asset.Kind)}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), job); err != nil {
		if uerr := uc.assets.UpdateWatermark(ctx, assetID, entity.WatermarkFailed, "enqueue: "+err.Error()); uerr != nil {
			uc.logger.Error("Failed to record enqueue failure for %s: %v", assetID, uerr)
		}
		return nil, fmt.Errorf("enqueue watermark for %s: %w", assetID, err)
	}

	uc.logger.Info("Admin %s re-enqueued watermark for asset %s", actor.UserID, assetID)
	asset.WatermarkStatus = entity.WatermarkPending
	asset.WatermarkError = ""
	return asset, nil
}
