package persistent

import (
	"context"
	"strings"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/model"
	"classifieds/services/marketplace/internal/repo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) repo.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	listingModel := ToListingModel(listing)
	if listingModel.ID == "" {
		listingModel.ID = uuid.New().String()
	}

	if err := r.db.WithContext(ctx).Create(listingModel).Error; err != nil {
		return err
	}
	*listing = *ToListingEntity(listingModel)
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var listingModel model.ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listingModel).Error; err != nil {
		return nil, notFound(err, "listing")
	}
	return ToListingEntity(&listingModel), nil
}

func (r *listingRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	if len(ids) == 0 {
		return []*entity.Listing{}, nil
	}
	var listingModels []model.ListingModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listingModels).Error; err != nil {
		return nil, err
	}
	return toListingEntities(listingModels), nil
}

func (r *listingRepository) List(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error) {
	query := r.db.WithContext(ctx).Model(&model.ListingModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Location != "" {
		like := containsPattern(filter.Location)
		query = query.Where("(LOWER(location_country) LIKE ? OR LOWER(location_region) LIKE ? OR LOWER(location_city) LIKE ? OR LOWER(location_district) LIKE ?)",
			like, like, like, like)
	}
	if filter.Search != "" {
		like := containsPattern(filter.Search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var listingModels []model.ListingModel
	if err := query.Order("created_at DESC").Limit(filter.NormalizedLimit()).Find(&listingModels).Error; err != nil {
		return nil, err
	}
	return toListingEntities(listingModels), nil
}

// Update writes the editable fields only. Status, views and featured have
// their own operations.
func (r *listingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	m := ToListingModel(listing)
	res := r.db.WithContext(ctx).Model(&model.ListingModel{}).Where("id = ?", listing.ID).Updates(map[string]interface{}{
		"title":             m.Title,
		"description":       m.Description,
		"price":             m.Price,
		"location_country":  m.LocationCountry,
		"location_region":   m.LocationRegion,
		"location_city":     m.LocationCity,
		"location_district": m.LocationDistrict,
		"category":          m.Category,
		"phone":             m.Phone,
		"email":             m.Email,
		"images":            m.Images,
		"videos":            m.Videos,
		"pricing_tiers":     m.PricingTiers,
		"services":          m.Services,
	})
	return requireAffected(res, "listing")
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	res := r.db.WithContext(ctx).Model(&model.ListingModel{}).Where("id = ?", id).Update("status", string(status))
	return requireAffected(res, "listing")
}

func (r *listingRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	res := r.db.WithContext(ctx).Model(&model.ListingModel{}).Where("id = ?", id).Update("featured", featured)
	return requireAffected(res, "listing")
}

func (r *listingRepository) IncrementViews(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&model.ListingModel{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	return requireAffected(res, "listing")
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ListingModel{})
	return requireAffected(res, "listing")
}

func (r *listingRepository) CountByStatus(ctx context.Context, status entity.ListingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ListingModel{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}

func toListingEntities(models []model.ListingModel) []*entity.Listing {
	listings := make([]*entity.Listing, len(models))
	for i := range models {
		listings[i] = ToListingEntity(&models[i])
	}
	return listings
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
