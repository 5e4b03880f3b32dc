package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// ScoreRepository handles persistence for raw coursework and exam scores.
type ScoreRepository interface {
	CreateCoursework(ctx context.Context, score *models.CourseworkScore) error
	ListCoursework(ctx context.Context, studentID, subjectID, periodID uint) ([]models.CourseworkScore, error)
	UpdateCoursework(ctx context.Context, score *models.CourseworkScore) error
	DeleteCoursework(ctx context.Context, id uint) error

	CreateExam(ctx context.Context, score *models.ExamScore) error
	FirstExam(ctx context.Context, studentID, subjectID, trimesterID uint) (models.ExamScore, error)
	UpdateExam(ctx context.Context, score *models.ExamScore) error
	DeleteExam(ctx context.Context, id uint) error
}

type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository constructs a GORM-backed score repository.
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) CreateCoursework(ctx context.Context, score *models.CourseworkScore) error {
	return r.db.WithContext(ctx).Create(score).Error
}

func (r *scoreRepository) ListCoursework(ctx context.Context, studentID, subjectID, periodID uint) ([]models.CourseworkScore, error) {
	var scores []models.CourseworkScore
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ? AND period_id = ?", studentID, subjectID, periodID).
		Order("scored_at ASC, id ASC").
		Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *scoreRepository) UpdateCoursework(ctx context.Context, score *models.CourseworkScore) error {
	return r.db.WithContext(ctx).Save(score).Error
}

func (r *scoreRepository) DeleteCoursework(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.CourseworkScore{}, id)
}

func (r *scoreRepository) CreateExam(ctx context.Context, score *models.ExamScore) error {
	return r.db.WithContext(ctx).Create(score).Error
}

// FirstExam returns the earliest exam entry for the triple. Duplicate
// entries can exist; ordering by scored_at then id keeps the pick
// deterministic.
func (r *scoreRepository) FirstExam(ctx context.Context, studentID, subjectID, trimesterID uint) (models.ExamScore, error) {
	var score models.ExamScore
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ? AND trimester_id = ?", studentID, subjectID, trimesterID).
		Order("scored_at ASC, id ASC").
		First(&score).Error; err != nil {
		return models.ExamScore{}, err
	}
	return score, nil
}

func (r *scoreRepository) UpdateExam(ctx context.Context, score *models.ExamScore) error {
	return r.db.WithContext(ctx).Save(score).Error
}

func (r *scoreRepository) DeleteExam(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.ExamScore{}, id)
}
