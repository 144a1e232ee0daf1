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

type messageDoc struct {
	ID         string `bson:"id"`
	FromUserID string `bson:"from_user_id"`
	ToUserID   string `bson:"to_user_id"`
	ListingID  string `bson:"listing_id"`
	Content    string `bson:"content"`
	Read       bool   `bson:"read"`
	CreatedAt  string `bson:"created_at"`
}

func (d *messageDoc) entity() *entity.Message {
	return &entity.Message{
		ID:         d.ID,
		FromUserID: d.FromUserID,
		ToUserID:   d.ToUserID,
		ListingID:  d.ListingID,
		Content:    d.Content,
		Read:       d.Read,
		CreatedAt:  parseTime(d.CreatedAt),
	}
}

type messageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) repo.MessageRepository {
	return &messageRepository{coll: db.Collection(messagesCollection)}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now()
	}
	_, err := r.coll.InsertOne(ctx, &messageDoc{
		ID:         message.ID,
		FromUserID: message.FromUserID,
		ToUserID:   message.ToUserID,
		ListingID:  message.ListingID,
		Content:    message.Content,
		Read:       message.Read,
		CreatedAt:  formatTime(message.CreatedAt),
	})
	return err
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	doc, err := findOne[messageDoc](ctx, r.coll, bson.M{"id": id}, "message")
	if err != nil {
		return nil, err
	}
	return doc.entity(), nil
}

func participantOf(userID string) bson.M {
	return bson.M{"$or": []bson.M{{"from_user_id": userID}, {"to_user_id": userID}}}
}

func (r *messageRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	docs, err := findAll[messageDoc](ctx, r.coll, participantOf(userID),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return toMessageEntities(docs), nil
}

func (r *messageRepository) ListConversation(ctx context.Context, userID, listingID string) ([]*entity.Message, error) {
	filter := participantOf(userID)
	filter["listing_id"] = listingID
	docs, err := findAll[messageDoc](ctx, r.coll, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return toMessageEntities(docs), nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"read": true}})
	return requireMatched(res, err, "message")
}

func toMessageEntities(docs []messageDoc) []*entity.Message {
	messages := make([]*entity.Message, len(docs))
	for i := range docs {
		messages[i] = docs[i].entity()
	}
	return messages
}
