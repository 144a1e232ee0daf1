package usecase

import (
	"context"
	"fmt"
	"strings"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

const maxMessageLength = 5000

type SendMessageInput struct {
	ToUserID  string
	ListingID string
	Content   string
}

type MessageUseCase interface {
	SendMessage(ctx context.Context, actor entity.Actor, input SendMessageInput) (*entity.Message, error)
	ListMessages(ctx context.Context, actor entity.Actor) ([]*entity.Message, error)
	Conversation(ctx context.Context, actor entity.Actor, listingID string) ([]*entity.Message, error)
	MarkRead(ctx context.Context, actor entity.Actor, messageID string) error
	Subscribe(ctx context.Context, actor entity.Actor) (<-chan *entity.Message, error)
}

type messageUseCase struct {
	messageRepo repo.MessageRepository
	userRepo    repo.UserRepository
	listingRepo repo.ListingRepository
	notifier    MessageNotifier
	logger      *logger.Logger
}

func NewMessageUseCase(
	messageRepo repo.MessageRepository,
	userRepo repo.UserRepository,
	listingRepo repo.ListingRepository,
	notifier MessageNotifier,
	logger *logger.Logger,
) MessageUseCase {
	return &messageUseCase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func (uc *messageUseCase) SendMessage(ctx context.Context, actor entity.Actor, input SendMessageInput) (*entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" || input.ToUserID == "" || input.ListingID == "" {
		return nil, fmt.Errorf("to_user_id, listing_id and content are required: %w", entity.ErrValidation)
	}
	if len(content) > maxMessageLength {
		return nil, fmt.Errorf("message exceeds %d bytes: %w", maxMessageLength, entity.ErrValidation)
	}
	if input.ToUserID == actor.UserID {
		return nil, fmt.Errorf("cannot message yourself: %w", entity.ErrValidation)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.ToUserID); err != nil {
		return nil, err
	}
	if _, err := uc.listingRepo.GetByID(ctx, input.ListingID); err != nil {
		return nil, err
	}

	message := &entity.Message{
		FromUserID: actor.UserID,
		ToUserID:   input.ToUserID,
		ListingID:  input.ListingID,
		Content:    content,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.notifier.Publish(ctx, message); err != nil {
		uc.logger.Warn("Failed to push message %s to %s: %v", message.ID, message.ToUserID, err)
	}
	return message, nil
}

func (uc *messageUseCase) ListMessages(ctx context.Context, actor entity.Actor) ([]*entity.Message, error) {
	return uc.messageRepo.ListForUser(ctx, actor.UserID)
}

func (uc *messageUseCase) Conversation(ctx context.Context, actor entity.Actor, listingID string) ([]*entity.Message, error) {
	return uc.messageRepo.ListConversation(ctx, actor.UserID, listingID)
}

func (uc *messageUseCase) MarkRead(ctx context.Context, actor entity.Actor, messageID string) error {
	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.ToUserID != actor.UserID {
		return fmt.Errorf("only the recipient can mark a message read: %w", entity.ErrForbidden)
	}
	return uc.messageRepo.MarkRead(ctx, messageID)
}

func (uc *messageUseCase) Subscribe(ctx context.Context, actor entity.Actor) (<-chan *entity.Message, error) {
	return uc.notifier.Subscribe(ctx, actor.UserID)
}
