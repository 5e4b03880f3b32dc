package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// ScoreService records raw coursework and exam results. Recorded scores
// never trigger recomputation on their own; derived grades change only
// through the grade service's explicit recompute operations.
type ScoreService interface {
	RecordCoursework(ctx context.Context, actor Actor, payload dto.CourseworkScoreRequest) (models.CourseworkScore, error)
	ListCoursework(ctx context.Context, studentID, subjectID, periodID uint) ([]models.CourseworkScore, error)
	RecordExam(ctx context.Context, actor Actor, payload dto.ExamScoreRequest) (models.ExamScore, error)
	DeleteCoursework(ctx context.Context, actor Actor, id uint) error
	DeleteExam(ctx context.Context, actor Actor, id uint) error
}

type scoreService struct {
	scores    repository.ScoreRepository
	students  repository.StudentRepository
	subjects  repository.SubjectRepository
	calendar  repository.CalendarRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewScoreService constructs the score-entry service.
func NewScoreService(
	scores repository.ScoreRepository,
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	calendar repository.CalendarRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ScoreService {
	return &scoreService{
		scores:    scores,
		students:  students,
		subjects:  subjects,
		calendar:  calendar,
		validator: validate,
		logger:    logger.With().Str("component", "score_service").Logger(),
	}
}

func (s *scoreService) RecordCoursework(ctx context.Context, actor Actor, payload dto.CourseworkScoreRequest) (models.CourseworkScore, error) {
	if err := authorize(actor, access.OpEnterScores); err != nil {
		return models.CourseworkScore{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return models.CourseworkScore{}, err
	}
	if err := s.checkRefs(ctx, payload.StudentID, payload.SubjectID); err != nil {
		return models.CourseworkScore{}, err
	}
	if _, err := s.calendar.GetPeriod(ctx, payload.PeriodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CourseworkScore{}, ErrPeriodNotFound
		}
		return models.CourseworkScore{}, err
	}

	scoredAt, err := parseScoredAt(payload.ScoredAt)
	if err != nil {
		return models.CourseworkScore{}, err
	}

	score := models.CourseworkScore{
		StudentID: payload.StudentID,
		SubjectID: payload.SubjectID,
		PeriodID:  payload.PeriodID,
		Grade:     payload.Grade,
		ScoredAt:  scoredAt,
	}
	if err := s.scores.CreateCoursework(ctx, &score); err != nil {
		return models.CourseworkScore{}, err
	}
	return score, nil
}

func (s *scoreService) ListCoursework(ctx context.Context, studentID, subjectID, periodID uint) ([]models.CourseworkScore, error) {
	return s.scores.ListCoursework(ctx, studentID, subjectID, periodID)
}

func (s *scoreService) RecordExam(ctx context.Context, actor Actor, payload dto.ExamScoreRequest) (models.ExamScore, error) {
	if err := authorize(actor, access.OpEnterScores); err != nil {
		return models.ExamScore{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return models.ExamScore{}, err
	}
	if err := s.checkRefs(ctx, payload.StudentID, payload.SubjectID); err != nil {
		return models.ExamScore{}, err
	}
	if _, err := s.calendar.GetTrimester(ctx, payload.TrimesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ExamScore{}, ErrTrimesterNotFound
		}
		return models.ExamScore{}, err
	}

	scoredAt, err := parseScoredAt(payload.ScoredAt)
	if err != nil {
		return models.ExamScore{}, err
	}

	score := models.ExamScore{
		StudentID:   payload.StudentID,
		SubjectID:   payload.SubjectID,
		TrimesterID: payload.TrimesterID,
		Grade:       payload.Grade,
		ScoredAt:    scoredAt,
	}
	if err := s.scores.CreateExam(ctx, &score); err != nil {
		return models.ExamScore{}, err
	}
	return score, nil
}

func (s *scoreService) DeleteCoursework(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpEnterScores); err != nil {
		return err
	}
	if err := s.scores.DeleteCoursework(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

func (s *scoreService) DeleteExam(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpEnterScores); err != nil {
		return err
	}
	if err := s.scores.DeleteExam(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

func (s *scoreService) checkRefs(ctx context.Context, studentID, subjectID uint) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	return nil
}

func parseScoredAt(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
