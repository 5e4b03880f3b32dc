package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// MessageRepository handles persistence for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (models.Message, error)
	ListConversation(ctx context.Context, userA, userB uint, limit, offset int) ([]models.Message, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, id, receiverID uint) (models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs a GORM-backed message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		return models.Message{}, err
	}
	return message, nil
}

func (r *messageRepository) ListConversation(ctx context.Context, userA, userB uint, limit, offset int) ([]models.Message, error) {
	limit, offset = normalizePage(limit, offset)

	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	limit, offset = normalizePage(limit, offset)

	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id, receiverID uint) (models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		First(&message).Error; err != nil {
		return models.Message{}, err
	}

	if message.Read {
		return message, nil
	}

	message.Read = true
	if err := r.db.WithContext(ctx).Save(&message).Error; err != nil {
		return models.Message{}, err
	}
	return message, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
