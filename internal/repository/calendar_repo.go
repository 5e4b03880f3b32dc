package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// CalendarRepository handles persistence for the school-year calendar
// hierarchy: school years, trimesters and periods.
type CalendarRepository interface {
	CreateSchoolYear(ctx context.Context, year *models.SchoolYear) error
	GetSchoolYear(ctx context.Context, id uint) (models.SchoolYear, error)
	ListSchoolYears(ctx context.Context) ([]models.SchoolYear, error)
	UpdateSchoolYear(ctx context.Context, year *models.SchoolYear) error
	DeleteSchoolYear(ctx context.Context, id uint) error

	CreateTrimester(ctx context.Context, trimester *models.Trimester) error
	GetTrimester(ctx context.Context, id uint) (models.Trimester, error)
	ListTrimesters(ctx context.Context, schoolYearID uint) ([]models.Trimester, error)
	UpdateTrimester(ctx context.Context, trimester *models.Trimester) error
	DeleteTrimester(ctx context.Context, id uint) error

	CreatePeriod(ctx context.Context, period *models.Period) error
	GetPeriod(ctx context.Context, id uint) (models.Period, error)
	UpdatePeriod(ctx context.Context, period *models.Period) error
	DeletePeriod(ctx context.Context, id uint) error
}

type calendarRepository struct {
	db *gorm.DB
}

// NewCalendarRepository constructs a GORM-backed calendar repository.
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) CreateSchoolYear(ctx context.Context, year *models.SchoolYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

// GetSchoolYear returns the year with its trimesters in position order.
func (r *calendarRepository) GetSchoolYear(ctx context.Context, id uint) (models.SchoolYear, error) {
	var year models.SchoolYear
	if err := r.db.WithContext(ctx).
		Preload("Trimesters", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&year, id).Error; err != nil {
		return models.SchoolYear{}, err
	}
	return year, nil
}

func (r *calendarRepository) ListSchoolYears(ctx context.Context) ([]models.SchoolYear, error) {
	var years []models.SchoolYear
	if err := r.db.WithContext(ctx).Order("starts_at DESC").Find(&years).Error; err != nil {
		return nil, err
	}
	return years, nil
}

func (r *calendarRepository) UpdateSchoolYear(ctx context.Context, year *models.SchoolYear) error {
	return r.db.WithContext(ctx).Save(year).Error
}

func (r *calendarRepository) DeleteSchoolYear(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.SchoolYear{}, id)
}

func (r *calendarRepository) CreateTrimester(ctx context.Context, trimester *models.Trimester) error {
	return r.db.WithContext(ctx).Create(trimester).Error
}

// GetTrimester returns the trimester with its periods in position order.
func (r *calendarRepository) GetTrimester(ctx context.Context, id uint) (models.Trimester, error) {
	var trimester models.Trimester
	if err := r.db.WithContext(ctx).
		Preload("Periods", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&trimester, id).Error; err != nil {
		return models.Trimester{}, err
	}
	return trimester, nil
}

func (r *calendarRepository) ListTrimesters(ctx context.Context, schoolYearID uint) ([]models.Trimester, error) {
	var trimesters []models.Trimester
	query := r.db.WithContext(ctx).Order("position ASC")
	if schoolYearID != 0 {
		query = query.Where("school_year_id = ?", schoolYearID)
	}
	if err := query.Find(&trimesters).Error; err != nil {
		return nil, err
	}
	return trimesters, nil
}

func (r *calendarRepository) UpdateTrimester(ctx context.Context, trimester *models.Trimester) error {
	return r.db.WithContext(ctx).Save(trimester).Error
}

func (r *calendarRepository) DeleteTrimester(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Trimester{}, id)
}

func (r *calendarRepository) CreatePeriod(ctx context.Context, period *models.Period) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *calendarRepository) GetPeriod(ctx context.Context, id uint) (models.Period, error) {
	var period models.Period
	if err := r.db.WithContext(ctx).First(&period, id).Error; err != nil {
		return models.Period{}, err
	}
	return period, nil
}

func (r *calendarRepository) UpdatePeriod(ctx context.Context, period *models.Period) error {
	return r.db.WithContext(ctx).Save(period).Error
}

func (r *calendarRepository) DeletePeriod(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Period{}, id)
}

func deleteByID(db *gorm.DB, model interface{}, id uint) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
