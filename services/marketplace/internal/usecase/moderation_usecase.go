package usecase

import (
	"context"
	"fmt"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

type ModerationUseCase interface {
	// ModerateListing sets any status from the closed set, from any state.
	ModerateListing(ctx context.Context, actor entity.Actor, listingID string, status entity.ListingStatus) (*entity.Listing, error)
	ListByStatus(ctx context.Context, actor entity.Actor, status entity.ListingStatus) ([]*entity.Listing, error)
}

type moderationUseCase struct {
	listingRepo repo.ListingRepository
	events      ListingEvents
	logger      *logger.Logger
}

func NewModerationUseCase(listingRepo repo.ListingRepository, events ListingEvents, logger *logger.Logger) ModerationUseCase {
	return &moderationUseCase{listingRepo: listingRepo, events: events, logger: logger}
}

func (uc *moderationUseCase) ModerateListing(ctx context.Context, actor entity.Actor, listingID string, status entity.ListingStatus) (*entity.Listing, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, entity.ErrValidation)
	}

	if err := uc.listingRepo.UpdateStatus(ctx, listingID, status); err != nil {
		return nil, err
	}
	uc.logger.Info("Admin %s set listing %s to %s", actor.UserID, listingID, status)

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if status == entity.StatusApproved {
		if err := uc.events.ListingApproved(ctx, listing); err != nil {
			uc.logger.Warn("Failed to publish approval of listing %s: %v", listingID, err)
		}
	}
	return listing, nil
}

func (uc *moderationUseCase) ListByStatus(ctx context.Context, actor entity.Actor, status entity.ListingStatus) ([]*entity.Listing, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if status == "" {
		status = entity.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, entity.ErrValidation)
	}
	return uc.listingRepo.List(ctx, entity.ListingFilter{Status: &status, Limit: entity.AdminListingLimit})
}
