package usecase

import (
	"context"
	"fmt"
	"strings"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

type ListingInput struct {
	Title        string
	Description  string
	Price        float64
	Location     entity.Location
	Category     string
	Phone        string
	Email        string
	Images       []string
	Videos       []string
	PricingTiers []entity.PricingTier
	Services     []string
}

// ListingPatch carries the fields present in an update request.
type ListingPatch struct {
	Title        *string
	Description  *string
	Price        *float64
	Location     *entity.Location
	Category     *string
	Phone        *string
	Email        *string
	Images       *[]string
	Videos       *[]string
	PricingTiers *[]entity.PricingTier
	Services     *[]string
}

type ListingUseCase interface {
	CreateListing(ctx context.Context, actor entity.Actor, input ListingInput) (*entity.Listing, error)
	GetListing(ctx context.Context, listingID string) (*entity.Listing, error)
	ListPublic(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error)
	ListOwn(ctx context.Context, actor entity.Actor) ([]*entity.Listing, error)
	UpdateListing(ctx context.Context, actor entity.Actor, listingID string, patch ListingPatch) (*entity.Listing, error)
	DeleteListing(ctx context.Context, actor entity.Actor, listingID string) error
	SetFeatured(ctx context.Context, actor entity.Actor, listingID string, featured bool) (*entity.Listing, error)
}

type listingUseCase struct {
	listingRepo repo.ListingRepository
	userRepo    repo.UserRepository
	assets      repo.MediaAssetRepository
	store       MediaStore
	logger      *logger.Logger
}

func NewListingUseCase(
	listingRepo repo.ListingRepository,
	userRepo repo.UserRepository,
	assets repo.MediaAssetRepository,
	store MediaStore,
	logger *logger.Logger,
) ListingUseCase {
	return &listingUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		assets:      assets,
		store:       store,
		logger:      logger,
	}
}

// CreateListing always stores the listing as pending.
func (uc *listingUseCase) CreateListing(ctx context.Context, actor entity.Actor, input ListingInput) (*entity.Listing, error) {
	if err := validateListing(input.Title, input.Price, input.PricingTiers); err != nil {
		return nil, err
	}

	owner, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Price:        input.Price,
		Location:     input.Location,
		Category:     input.Category,
		Phone:        input.Phone,
		Email:        input.Email,
		Images:       input.Images,
		Videos:       input.Videos,
		PricingTiers: input.PricingTiers,
		Services:     input.Services,
		UserID:       owner.ID,
		UserName:     owner.Name,
		Status:       entity.StatusPending,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to create listing: %v", err)
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	uc.attachMedia(ctx, listing)
	return listing, nil
}

// GetListing counts every read: one atomic increment, then a separate read.
func (uc *listingUseCase) GetListing(ctx context.Context, listingID string) (*entity.Listing, error) {
	if err := uc.listingRepo.IncrementViews(ctx, listingID); err != nil {
		return nil, err
	}
	return uc.listingRepo.GetByID(ctx, listingID)
}

// ListPublic only ever returns approved listings.
func (uc *listingUseCase) ListPublic(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error) {
	approved := entity.StatusApproved
	filter.Status = &approved
	filter.Limit = entity.ClampLimit(filter.Limit)
	return uc.listingRepo.List(ctx, filter)
}

func (uc *listingUseCase) ListOwn(ctx context.Context, actor entity.Actor) ([]*entity.Listing, error) {
	return uc.listingRepo.List(ctx, entity.ListingFilter{UserID: actor.UserID, Limit: entity.MaxListingLimit})
}

// UpdateListing never touches status, views or featured.
func (uc *listingUseCase) UpdateListing(ctx context.Context, actor entity.Actor, listingID string, patch ListingPatch) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(listing.UserID) {
		return nil, fmt.Errorf("not the owner of listing %s: %w", listingID, entity.ErrForbidden)
	}

	applyPatch(listing, patch)
	if err := validateListing(listing.Title, listing.Price, listing.PricingTiers); err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	if patch.Images != nil || patch.Videos != nil {
		uc.attachMedia(ctx, listing)
	}
	return uc.listingRepo.GetByID(ctx, listingID)
}

func (uc *listingUseCase) DeleteListing(ctx context.Context, actor entity.Actor, listingID string) error {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !actor.CanModify(listing.UserID) {
		return fmt.Errorf("not the owner of listing %s: %w", listingID, entity.ErrForbidden)
	}
	return uc.listingRepo.Delete(ctx, listingID)
}

func (uc *listingUseCase) SetFeatured(ctx context.Context, actor entity.Actor, listingID string, featured bool) (*entity.Listing, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := uc.listingRepo.SetFeatured(ctx, listingID, featured); err != nil {
		return nil, err
	}
	return uc.listingRepo.GetByID(ctx, listingID)
}

// attachMedia links stored uploads referenced by URL to the listing. Only
// uploads of the listing's owner that are not bound elsewhere are linked;
// other URLs stay on the listing but are ignored here.
func (uc *listingUseCase) attachMedia(ctx context.Context, listing *entity.Listing) {
	var names []string
	for _, url := range listing.MediaURLs() {
		if name, ok := uc.store.NameFromURL(url); ok {
			names = append(names, name)
		}
	}
	if err := uc.assets.AttachToListing(ctx, listing.UserID, names, listing.ID); err != nil {
		uc.logger.Warn("Failed to attach media to listing %s: %v", listing.ID, err)
	}
}

func applyPatch(l *entity.Listing, p ListingPatch) {
	if p.Title != nil {
		l.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Location != nil {
		l.Location = *p.Location
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Images != nil {
		l.Images = *p.Images
	}
	if p.Videos != nil {
		l.Videos = *p.Videos
	}
	if p.PricingTiers != nil {
		l.PricingTiers = *p.PricingTiers
	}
	if p.Services != nil {
		l.Services = *p.Services
	}
}

func validateListing(title string, price float64, tiers []entity.PricingTier) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required: %w", entity.ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("price must not be negative: %w", entity.ErrValidation)
	}
	for _, tier := range tiers {
		if tier.Hours <= 0 || tier.Price < 0 {
			return fmt.Errorf("pricing tiers need positive hours and a non-negative price: %w", entity.ErrValidation)
		}
	}
	return nil
}
