package document

import (
	"context"
	"strings"
	"time"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID            string  `bson:"id"`
	Email         string  `bson:"email"`
	Name          string  `bson:"name"`
	Password      string  `bson:"password"`
	Role          string  `bson:"role"`
	VerifiedBadge bool    `bson:"verified_badge"`
	VIPStatus     bool    `bson:"vip_status"`
	VIPExpiry     *string `bson:"vip_expiry,omitempty"`
	CreatedAt     string  `bson:"created_at"`
	UpdatedAt     string  `bson:"updated_at"`
}

func toUserDoc(u *entity.User) *userDoc {
	return &userDoc{
		ID:            u.ID,
		Email:         strings.ToLower(u.Email),
		Name:          u.Name,
		Password:      u.Password,
		Role:          string(u.Role),
		VerifiedBadge: u.VerifiedBadge,
		VIPStatus:     u.VIPStatus,
		VIPExpiry:     formatTimePtr(u.VIPExpiry),
		CreatedAt:     formatTime(u.CreatedAt),
		UpdatedAt:     formatTime(u.UpdatedAt),
	}
}

func (d *userDoc) entity() *entity.User {
	return &entity.User{
		ID:            d.ID,
		Email:         d.Email,
		Name:          d.Name,
		Password:      d.Password,
		Role:          entity.Role(d.Role),
		VerifiedBadge: d.VerifiedBadge,
		VIPStatus:     d.VIPStatus,
		VIPExpiry:     parseTimePtr(d.VIPExpiry),
		CreatedAt:     parseTime(d.CreatedAt),
		UpdatedAt:     parseTime(d.UpdatedAt),
	}
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repo.UserRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	ts := now()
	user.CreatedAt, user.UpdatedAt = ts, ts
	user.Email = strings.ToLower(user.Email)

	_, err := r.coll.InsertOne(ctx, toUserDoc(user))
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := findOne[userDoc](ctx, r.coll, bson.M{"id": id}, "user")
	if err != nil {
		return nil, err
	}
	return doc.entity(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	doc, err := findOne[userDoc](ctx, r.coll, bson.M{"email": strings.ToLower(email)}, "user")
	if err != nil {
		return nil, err
	}
	return doc.entity(), nil
}

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	docs, err := findAll[userDoc](ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	users := make([]*entity.User, len(docs))
	for i := range docs {
		users[i] = docs[i].entity()
	}
	return users, nil
}

func (r *userRepository) set(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = formatTime(now())
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	return requireMatched(res, err, "user")
}

func (r *userRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.set(ctx, id, bson.M{"verified_badge": verified})
}

func (r *userRepository) SetVIP(ctx context.Context, id string, vip bool, expiry *time.Time) error {
	return r.set(ctx, id, bson.M{"vip_status": vip, "vip_expiry": formatTimePtr(expiry)})
}

func (r *userRepository) SetRole(ctx context.Context, id string, role entity.Role) error {
	return r.set(ctx, id, bson.M{"role": string(role)})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	return requireDeleted(res, err, "user")
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
