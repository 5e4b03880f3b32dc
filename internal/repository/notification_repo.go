package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// NotificationRepository handles persistence for notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) (models.Notification, error)
	MarkAllRead(ctx context.Context, userID uint, kind models.NotificationKind) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a GORM-backed notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	limit, offset = normalizePage(limit, offset)

	var notifications []models.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag. Scoping the lookup by user id enforces that
// only the recipient can mark their own notification.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint) (models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {
		return models.Notification{}, err
	}

	if notification.Read {
		return notification, nil
	}

	notification.Read = true
	if err := r.db.WithContext(ctx).Save(&notification).Error; err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}

// MarkAllRead flips every unread notification of the user, optionally
// filtered by kind, and returns the number flipped.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint, kind models.NotificationKind) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	result := query.Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
