package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"classifieds/pkg/logger"
	"classifieds/pkg/queue"
	"classifieds/pkg/watermark"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

// storedExt is the shape of an extension kept in a storage name. Anything
// else is dropped and the file is stored under a bare id.
var storedExt = regexp.MustCompile(`^\.[a-z0-9]{1,16}$`)

func storageExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !storedExt.MatchString(ext) {
		return ""
	}
	return ext
}

type UploadUseCase interface {
	// Accept stores the stream and schedules watermarking without waiting
	// for it.
	Accept(ctx context.Context, ownerID string, r io.Reader, filename string) (*entity.MediaAsset, error)
}

type uploadUseCase struct {
	store     MediaStore
	assets    repo.MediaAssetRepository
	publisher queue.Publisher
	logger    *logger.Logger
}

func NewUploadUseCase(store MediaStore, assets repo.MediaAssetRepository, publisher queue.Publisher, logger *logger.Logger) UploadUseCase {
	return &uploadUseCase{
		store:     store,
		assets:    assets,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *uploadUseCase) Accept(ctx context.Context, ownerID string, r io.Reader, filename string) (*entity.MediaAsset, error) {
	ext := storageExt(filename)
	kind := entity.MediaKind(watermark.Classify(filename))

	name, size, err := uc.store.Save(ctx, r, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrStorageIO, err)
	}

	asset := &entity.MediaAsset{
		Name:            name,
		Path:            uc.store.Path(name),
		URL:             uc.store.URL(name),
		Extension:       ext,
		Kind:            kind,
		Size:            size,
		OwnerID:         ownerID,
		WatermarkStatus: entity.WatermarkPending,
	}
	if kind == entity.MediaOther {
		asset.WatermarkStatus = entity.WatermarkSkipped
	}

	if err := uc.assets.Create(ctx, asset); err != nil {
		uc.logger.Error("Failed to record upload %s: %v", name, err)
		if derr := uc.store.Delete(name); derr != nil {
			uc.logger.Error("Failed to remove orphaned upload %s: %v", name, derr)
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrStorageIO, err)
	}

	if asset.WatermarkStatus == entity.WatermarkPending {
		uc.schedule(ctx, asset)
	}

	uc.logger.Info("Stored upload %s (%s, %d bytes) for user %s", name, kind, size, ownerID)
	return asset, nil
}

// schedule publishes exactly one job. The job must outlive the request, so
// request cancellation is stripped from the context.
func (uc *uploadUseCase) schedule(ctx context.Context, asset *entity.MediaAsset) {
	job := queue.WatermarkJob{AssetID: asset.ID, Path: asset.Path, Kind: string(asset.Kind)}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), job); err != nil {
		uc.logger.Error("Failed to enqueue watermark for %s: %v", asset.Name, err)
		asset.WatermarkStatus = entity.WatermarkFailed
		asset.WatermarkError = "enqueue: " + err.Error()
		if uerr := uc.assets.UpdateWatermark(context.WithoutCancel(ctx), asset.ID, asset.WatermarkStatus, asset.WatermarkError); uerr != nil {
			uc.logger.Error("Failed to record enqueue failure for %s: %v", asset.Name, uerr)
		}
	}
}
