package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// AssignmentRepository handles persistence for homework assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	List(ctx context.Context, classID uint, subdivision string) ([]models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository constructs a GORM-backed assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) List(ctx context.Context, classID uint, subdivision string) ([]models.Assignment, error) {
	query := r.db.WithContext(ctx).Order("due_date ASC")
	if classID != 0 {
		query = query.Where("class_id = ?", classID)
	}
	if subdivision != "" {
		query = query.Where("subdivision = ?", subdivision)
	}

	var assignments []models.Assignment
	if err := query.Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Assignment{}, id)
}
