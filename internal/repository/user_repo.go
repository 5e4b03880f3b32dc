package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// ErrDuplicateKey signals a unique-constraint violation on create.
var ErrDuplicateKey = gorm.ErrDuplicatedKey

// UserRepository handles persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, role models.Role) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	ReplaceChildren(ctx context.Context, parent *models.User, children []models.Student) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a GORM-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.ToLower(user.Email)).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateKey
	}

	user.Email = strings.ToLower(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Children").First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, role models.Role) ([]models.User, error) {
	query := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC")
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) ReplaceChildren(ctx context.Context, parent *models.User, children []models.Student) error {
	return r.db.WithContext(ctx).Model(parent).Association("Children").Replace(children)
}
