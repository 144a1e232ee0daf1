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

type mediaDoc struct {
	ID              string `bson:"id"`
	Name            string `bson:"name"`
	Path            string `bson:"path"`
	URL             string `bson:"url"`
	Extension       string `bson:"extension"`
	Kind            string `bson:"kind"`
	Size            int64  `bson:"size"`
	OwnerID         string `bson:"owner_id"`
	ListingID       string `bson:"listing_id,omitempty"`
	WatermarkStatus string `bson:"watermark_status"`
	WatermarkError  string `bson:"watermark_error,omitempty"`
	MirrorURL       string `bson:"mirror_url,omitempty"`
	CreatedAt       string `bson:"created_at"`
	UpdatedAt       string `bson:"updated_at"`
}

func (d *mediaDoc) entity() *entity.MediaAsset {
	return &entity.MediaAsset{
		ID:              d.ID,
		Name:            d.Name,
		Path:            d.Path,
		URL:             d.URL,
		Extension:       d.Extension,
		Kind:            entity.MediaKind(d.Kind),
		Size:            d.Size,
		OwnerID:         d.OwnerID,
		ListingID:       d.ListingID,
		WatermarkStatus: entity.WatermarkStatus(d.WatermarkStatus),
		WatermarkError:  d.WatermarkError,
		MirrorURL:       d.MirrorURL,
		CreatedAt:       parseTime(d.CreatedAt),
		UpdatedAt:       parseTime(d.UpdatedAt),
	}
}

type mediaAssetRepository struct {
	coll *mongo.Collection
}

func NewMediaAssetRepository(db *mongo.Database) repo.MediaAssetRepository {
	return &mediaAssetRepository{coll: db.Collection(mediaCollection)}
}

func (r *mediaAssetRepository) Create(ctx context.Context, asset *entity.MediaAsset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	ts := now()
	asset.CreatedAt, asset.UpdatedAt = ts, ts

	_, err := r.coll.InsertOne(ctx, &mediaDoc{
		ID:              asset.ID,
		Name:            asset.Name,
		Path:            asset.Path,
		URL:             asset.URL,
		Extension:       asset.Extension,
		Kind:            string(asset.Kind),
		Size:            asset.Size,
		OwnerID:         asset.OwnerID,
		ListingID:       asset.ListingID,
		WatermarkStatus: string(asset.WatermarkStatus),
		WatermarkError:  asset.WatermarkError,
		MirrorURL:       asset.MirrorURL,
		CreatedAt:       formatTime(ts),
		UpdatedAt:       formatTime(ts),
	})
	return err
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, id string) (*entity.MediaAsset, error) {
	doc, err := findOne[mediaDoc](ctx, r.coll, bson.M{"id": id}, "media asset")
	if err != nil {
		return nil, err
	}
	return doc.entity(), nil
}

func (r *mediaAssetRepository) List(ctx context.Context, status entity.WatermarkStatus) ([]*entity.MediaAsset, error) {
	filter := bson.M{}
	if status != "" {
		filter["watermark_status"] = string(status)
	}
	docs, err := findAll[mediaDoc](ctx, r.coll, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	assets := make([]*entity.MediaAsset, len(docs))
	for i := range docs {
		assets[i] = docs[i].entity()
	}
	return assets, nil
}

func (r *mediaAssetRepository) UpdateWatermark(ctx context.Context, id string, status entity.WatermarkStatus, errText string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"watermark_status": string(status),
		"watermark_error":  errText,
		"updated_at":       formatTime(now()),
	}})
	return requireMatched(res, err, "media asset")
}

func (r *mediaAssetRepository) SetMirrorURL(ctx context.Context, id, url string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"mirror_url": url}})
	return requireMatched(res, err, "media asset")
}

func (r *mediaAssetRepository) AttachToListing(ctx context.Context, ownerID string, names []string, listingID string) error {
	if len(names) == 0 {
		return nil
	}
	filter := bson.M{
		"name":     bson.M{"$in": names},
		"owner_id": ownerID,
		"$or": bson.A{
			bson.M{"listing_id": bson.M{"$exists": false}},
			bson.M{"listing_id": ""},
			bson.M{"listing_id": listingID},
		},
	}
	_, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"listing_id": listingID}})
	return err
}
