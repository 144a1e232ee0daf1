package document

import (
	"context"
	"regexp"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type listingDoc struct {
	ID           string               `bson:"id"`
	Title        string               `bson:"title"`
	Description  string               `bson:"description"`
	Price        float64              `bson:"price"`
	Location     entity.Location      `bson:"location"`
	Category     string               `bson:"category"`
	Phone        string               `bson:"phone,omitempty"`
	Email        string               `bson:"email,omitempty"`
	Images       []string             `bson:"images"`
	Videos       []string             `bson:"videos"`
	PricingTiers []entity.PricingTier `bson:"pricing_tiers"`
	Services     []string             `bson:"services"`
	UserID       string               `bson:"user_id"`
	UserName     string               `bson:"user_name"`
	Featured     bool                 `bson:"featured"`
	Status       string               `bson:"status"`
	Views        int                  `bson:"views"`
	CreatedAt    string               `bson:"created_at"`
	UpdatedAt    string               `bson:"updated_at"`
}

func toListingDoc(l *entity.Listing) *listingDoc {
	return &listingDoc{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		Location:     l.Location,
		Category:     l.Category,
		Phone:        l.Phone,
		Email:        l.Email,
		Images:       nonNil(l.Images),
		Videos:       nonNil(l.Videos),
		PricingTiers: nonNil(l.PricingTiers),
		Services:     nonNil(l.Services),
		UserID:       l.UserID,
		UserName:     l.UserName,
		Featured:     l.Featured,
		Status:       string(l.Status),
		Views:        l.Views,
		CreatedAt:    formatTime(l.CreatedAt),
		UpdatedAt:    formatTime(l.UpdatedAt),
	}
}

func (d *listingDoc) entity() *entity.Listing {
	return &entity.Listing{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		Location:     d.Location,
		Category:     d.Category,
		Phone:        d.Phone,
		Email:        d.Email,
		Images:       nonNil(d.Images),
		Videos:       nonNil(d.Videos),
		PricingTiers: nonNil(d.PricingTiers),
		Services:     nonNil(d.Services),
		UserID:       d.UserID,
		UserName:     d.UserName,
		Featured:     d.Featured,
		Status:       entity.ListingStatus(d.Status),
		Views:        d.Views,
		CreatedAt:    parseTime(d.CreatedAt),
		UpdatedAt:    parseTime(d.UpdatedAt),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// listingQuery translates a filter into a find predicate.
func listingQuery(filter entity.ListingFilter) bson.M {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	var and []bson.M
	if filter.Location != "" {
		rx := containsRegex(filter.Location)
		and = append(and, bson.M{"$or": []bson.M{
			{"location.country": rx},
			{"location.region": rx},
			{"location.city": rx},
			{"location.district": rx},
		}})
	}
	if filter.Search != "" {
		rx := containsRegex(filter.Search)
		and = append(and, bson.M{"$or": []bson.M{
			{"title": rx},
			{"description": rx},
		}})
	}
	if len(and) > 0 {
		query["$and"] = and
	}

	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}
	return query
}

func containsRegex(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

type listingRepository struct {
	coll *mongo.Collection
}

func NewListingRepository(db *mongo.Database) repo.ListingRepository {
	return &listingRepository{coll: db.Collection(listingsCollection)}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	ts := now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = ts
	}
	listing.UpdatedAt = ts

	_, err := r.coll.InsertOne(ctx, toListingDoc(listing))
	return err
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := findOne[listingDoc](ctx, r.coll, bson.M{"id": id}, "listing")
	if err != nil {
		return nil, err
	}
	return doc.entity(), nil
}

func (r *listingRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	if len(ids) == 0 {
		return []*entity.Listing{}, nil
	}
	docs, err := findAll[listingDoc](ctx, r.coll, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return toListingEntities(docs), nil
}

func (r *listingRepository) List(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(filter.NormalizedLimit()))
	docs, err := findAll[listingDoc](ctx, r.coll, listingQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	return toListingEntities(docs), nil
}

func (r *listingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	doc := toListingDoc(listing)
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": listing.ID}, bson.M{"$set": bson.M{
		"title":         doc.Title,
		"description":   doc.Description,
		"price":         doc.Price,
		"location":      doc.Location,
		"category":      doc.Category,
		"phone":         doc.Phone,
		"email":         doc.Email,
		"images":        doc.Images,
		"videos":        doc.Videos,
		"pricing_tiers": doc.PricingTiers,
		"services":      doc.Services,
		"updated_at":    formatTime(now()),
	}})
	return requireMatched(res, err, "listing")
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": formatTime(now()),
	}})
	return requireMatched(res, err, "listing")
}

func (r *listingRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"featured": featured}})
	return requireMatched(res, err, "listing")
}

func (r *listingRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return requireMatched(res, err, "listing")
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	return requireDeleted(res, err, "listing")
}

func (r *listingRepository) CountByStatus(ctx context.Context, status entity.ListingStatus) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": string(status)})
}

func toListingEntities(docs []listingDoc) []*entity.Listing {
	listings := make([]*entity.Listing, len(docs))
	for i := range docs {
		listings[i] = docs[i].entity()
	}
	return listings
}
