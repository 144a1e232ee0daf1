package document

import (
	"context"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type favoriteDoc struct {
	ID        string `bson:"id"`
	UserID    string `bson:"user_id"`
	ListingID string `bson:"listing_id"`
	CreatedAt string `bson:"created_at"`
}

type favoriteRepository struct {
	coll *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) repo.FavoriteRepository {
	return &favoriteRepository{coll: db.Collection(favoritesCollection)}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) error {
	if favorite.ID == "" {
		favorite.ID = uuid.New().String()
	}
	favorite.CreatedAt = now()
	_, err := r.coll.InsertOne(ctx, &favoriteDoc{
		ID:        favorite.ID,
		UserID:    favorite.UserID,
		ListingID: favorite.ListingID,
		CreatedAt: formatTime(favorite.CreatedAt),
	})
	return err
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	return count > 0, err
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, listingID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	return err
}

func (r *favoriteRepository) ListingIDs(ctx context.Context, userID string) ([]string, error) {
	docs, err := findAll[favoriteDoc](ctx, r.coll, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ListingID
	}
	return ids, nil
}
