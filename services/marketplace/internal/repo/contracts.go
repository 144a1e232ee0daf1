// Package repo declares the storage contracts implemented by the relational
// (persistent) and document (document) backends.
package repo

import (
	"context"
	"time"

	"classifieds/services/marketplace/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	SetVerified(ctx context.Context, id string, verified bool) error
	SetVIP(ctx context.Context, id string, vip bool, expiry *time.Time) error
	SetRole(ctx context.Context, id string, role entity.Role) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error)
	List(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status entity.ListingStatus) (int64, error)
}

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *entity.Favorite) error
	Exists(ctx context.Context, userID, listingID string) (bool, error)
	Delete(ctx context.Context, userID, listingID string) error
	ListingIDs(ctx context.Context, userID string) ([]string, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	ListForUser(ctx context.Context, userID string) ([]*entity.Message, error)
	ListConversation(ctx context.Context, userID, listingID string) ([]*entity.Message, error)
	MarkRead(ctx context.Context, id string) error
}

type MediaAssetRepository interface {
	Create(ctx context.Context, asset *entity.MediaAsset) error
	GetByID(ctx context.Context, id string) (*entity.MediaAsset, error)
	List(ctx context.Context, status entity.WatermarkStatus) ([]*entity.MediaAsset, error)
	UpdateWatermark(ctx context.Context, id string, status entity.WatermarkStatus, errText string) error
	SetMirrorURL(ctx context.Context, id, url string) error
	// AttachToListing binds the named assets of ownerID that are not yet
	// bound to another listing.
	AttachToListing(ctx context.Context, ownerID string, names []string, listingID string) error
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Users     UserRepository
	Listings  ListingRepository
	Favorites FavoriteRepository
	Messages  MessageRepository
	Media     MediaAssetRepository
}
