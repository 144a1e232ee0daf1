package usecase

import (
	"context"
	"fmt"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

type FavoriteUseCase interface {
	// AddFavorite reports false when the listing was already a favorite.
	AddFavorite(ctx context.Context, actor entity.Actor, listingID string) (bool, error)
	RemoveFavorite(ctx context.Context, actor entity.Actor, listingID string) error
	ListFavorites(ctx context.Context, actor entity.Actor) ([]*entity.Listing, error)
}

type favoriteUseCase struct {
	favoriteRepo repo.FavoriteRepository
	listingRepo  repo.ListingRepository
}

func NewFavoriteUseCase(favoriteRepo repo.FavoriteRepository, listingRepo repo.ListingRepository) FavoriteUseCase {
	return &favoriteUseCase{favoriteRepo: favoriteRepo, listingRepo: listingRepo}
}

func (uc *favoriteUseCase) AddFavorite(ctx context.Context, actor entity.Actor, listingID string) (bool, error) {
	if listingID == "" {
		return false, fmt.Errorf("listing_id is required: %w", entity.ErrValidation)
	}
	if _, err := uc.listingRepo.GetByID(ctx, listingID); err != nil {
		return false, err
	}

	exists, err := uc.favoriteRepo.Exists(ctx, actor.UserID, listingID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := uc.favoriteRepo.Create(ctx, &entity.Favorite{UserID: actor.UserID, ListingID: listingID}); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *favoriteUseCase) RemoveFavorite(ctx context.Context, actor entity.Actor, listingID string) error {
	return uc.favoriteRepo.Delete(ctx, actor.UserID, listingID)
}

// ListFavorites returns the most recently favorited listings first. Listings
// deleted since are dropped.
func (uc *favoriteUseCase) ListFavorites(ctx context.Context, actor entity.Actor) ([]*entity.Listing, error) {
	ids, err := uc.favoriteRepo.ListingIDs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entity.Listing{}, nil
	}

	listings, err := uc.listingRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}
	ordered := make([]*entity.Listing, 0, len(listings))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}
