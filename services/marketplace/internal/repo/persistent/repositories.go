package persistent

import (
	"errors"
	"fmt"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"

	"gorm.io/gorm"
)

func NewRepositories(db *gorm.DB) repo.Repositories {
	return repo.Repositories{
		Users:     NewUserRepository(db),
		Listings:  NewListingRepository(db),
		Favorites: NewFavoriteRepository(db),
		Messages:  NewMessageRepository(db),
		Media:     NewMediaAssetRepository(db),
	}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, entity.ErrNotFound)
	}
	return err
}

func requireAffected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, entity.ErrNotFound)
	}
	return nil
}
