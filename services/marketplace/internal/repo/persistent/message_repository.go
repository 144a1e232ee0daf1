package persistent

import (
	"context"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/model"
	"classifieds/services/marketplace/internal/repo"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) repo.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	messageModel := ToMessageModel(message)
	if err := r.db.WithContext(ctx).Create(messageModel).Error; err != nil {
		return err
	}
	*message = *ToMessageEntity(messageModel)
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	var messageModel model.MessageModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&messageModel).Error; err != nil {
		return nil, notFound(err, "message")
	}
	return ToMessageEntity(&messageModel), nil
}

func (r *messageRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	var messageModels []model.MessageModel
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").Find(&messageModels).Error
	if err != nil {
		return nil, err
	}
	return toMessageEntities(messageModels), nil
}

func (r *messageRepository) ListConversation(ctx context.Context, userID, listingID string) ([]*entity.Message, error) {
	var messageModels []model.MessageModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Where("(from_user_id = ? OR to_user_id = ?)", userID, userID).
		Order("created_at ASC").Find(&messageModels).Error
	if err != nil {
		return nil, err
	}
	return toMessageEntities(messageModels), nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&model.MessageModel{}).Where("id = ?", id).Update("read", true)
	return requireAffected(res, "message")
}

func toMessageEntities(models []model.MessageModel) []*entity.Message {
	messages := make([]*entity.Message, len(models))
	for i := range models {
		messages[i] = ToMessageEntity(&models[i])
	}
	return messages
}
