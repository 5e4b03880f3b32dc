package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// ScheduleRepository handles persistence for weekly timetables.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	GetByID(ctx context.Context, id uint) (models.Schedule, error)
	Find(ctx context.Context, classID uint, subdivision string, schoolYearID uint) (models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id uint) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository constructs a GORM-backed schedule repository.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uint) (models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).Preload("Class").First(&schedule, id).Error; err != nil {
		return models.Schedule{}, err
	}
	return schedule, nil
}

func (r *scheduleRepository) Find(ctx context.Context, classID uint, subdivision string, schoolYearID uint) (models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).
		Where("class_id = ? AND subdivision = ? AND school_year_id = ?", classID, subdivision, schoolYearID).
		First(&schedule).Error; err != nil {
		return models.Schedule{}, err
	}
	return schedule, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Schedule{}, id)
}
