package usecase

import (
	"context"

	"classifieds/pkg/logger"
	"classifieds/pkg/queue"
	"classifieds/pkg/watermark"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

// WatermarkProcessor is the queue handler for watermark jobs.
type WatermarkProcessor struct {
	engine Watermarker
	assets repo.MediaAssetRepository
	mirror Mirror
	logger *logger.Logger
}

// NewWatermarkProcessor accepts a nil mirror when S3 mirroring is off.
func NewWatermarkProcessor(engine Watermarker, assets repo.MediaAssetRepository, mirror Mirror, logger *logger.Logger) *WatermarkProcessor {
	return &WatermarkProcessor{engine: engine, assets: assets, mirror: mirror, logger: logger}
}

// Handle runs one job. Transform failures are recorded on the asset and
// logged, never returned: the upload already succeeded and the original
// file is intact.
func (p *WatermarkProcessor) Handle(ctx context.Context, job queue.WatermarkJob) error {
	if err := p.engine.Apply(ctx, job.Path, watermark.Kind(job.Kind)); err != nil {
		p.logger.Warn("[WATERMARK] asset=%s path=%s failed: %v", job.AssetID, job.Path, err)
		p.record(ctx, job.AssetID, entity.WatermarkFailed, err.Error())
		return nil
	}

	p.record(ctx, job.AssetID, entity.WatermarkDone, "")
	p.logger.Info("[WATERMARK] asset=%s kind=%s done", job.AssetID, job.Kind)

	if p.mirror != nil {
		url, err := p.mirror.UploadPath(ctx, job.Path)
		if err != nil {
			p.logger.Error("[WATERMARK] asset=%s mirror failed: %v", job.AssetID, err)
			return nil
		}
		if err := p.assets.SetMirrorURL(ctx, job.AssetID, url); err != nil {
			p.logger.Error("[WATERMARK] asset=%s failed to record mirror url: %v", job.AssetID, err)
		}
	}
	return nil
}

func (p *WatermarkProcessor) record(ctx context.Context, assetID string, status entity.WatermarkStatus, errText string) {
	if err := p.assets.UpdateWatermark(ctx, assetID, status, errText); err != nil {
		p.logger.Error("[WATERMARK] asset=%s failed to record status %s: %v", assetID, status, err)
	}
}
