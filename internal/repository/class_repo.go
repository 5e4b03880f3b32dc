package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// ClassRepository handles persistence for classes and their subdivisions.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id uint) (models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	FindSuccessor(ctx context.Context, level int, kind models.ClassKind) (models.Class, error)
	Update(ctx context.Context, class *models.Class) error
	ReplaceSubdivisions(ctx context.Context, class *models.Class, subdivisions []models.Subdivision) error
	Delete(ctx context.Context, id uint) error
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository constructs a GORM-backed class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	for i := range class.Subdivisions {
		class.Subdivisions[i].Position = i
	}
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).
		Preload("Subdivisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&class, id).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) List(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).
		Preload("Subdivisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("kind ASC, level ASC").
		Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

// FindSuccessor returns the class one level above within the same track.
func (r *classRepository) FindSuccessor(ctx context.Context, level int, kind models.ClassKind) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).
		Preload("Subdivisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("level = ? AND kind = ?", level+1, kind).
		First(&class).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) Update(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *classRepository) ReplaceSubdivisions(ctx context.Context, class *models.Class, subdivisions []models.Subdivision) error {
	for i := range subdivisions {
		subdivisions[i].ClassID = class.ID
		subdivisions[i].Position = i
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", class.ID).Delete(&models.Subdivision{}).Error; err != nil {
			return err
		}
		if len(subdivisions) == 0 {
			return nil
		}
		return tx.Create(&subdivisions).Error
	})
}

func (r *classRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Subdivisions").Delete(&models.Class{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
