package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// SubjectRepository handles persistence for subjects.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uint) (models.Subject, error)
	List(ctx context.Context) ([]models.Subject, error)
	ListByClass(ctx context.Context, classID uint) ([]models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id uint) error
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository constructs a GORM-backed subject repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.Coefficient < 1 {
		subject.Coefficient = 1
	}
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepository) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return models.Subject{}, err
	}
	return subject, nil
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) ListByClass(ctx context.Context, classID uint) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("name ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Save(subject).Error
}

func (r *subjectRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Subject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
