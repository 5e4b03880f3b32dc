package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// TokenRepository handles persistence for auth-token records. A credential
// is valid only while its record exists.
type TokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	Get(ctx context.Context, id string) (models.AuthToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository constructs a GORM-backed token repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AuthToken{}).
		Where("id = ?", token.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateKey
	}

	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) Get(ctx context.Context, id string) (models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&token).Error; err != nil {
		return models.AuthToken{}, err
	}
	return token, nil
}

func (r *tokenRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AuthToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
