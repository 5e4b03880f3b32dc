package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// SubjectService manages taught disciplines.
type SubjectService interface {
	Create(ctx context.Context, actor Actor, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	Get(ctx context.Context, id uint) (dto.SubjectResponse, error)
	List(ctx context.Context, classID uint) ([]dto.SubjectResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.SubjectUpdateRequest) (dto.SubjectResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type subjectService struct {
	subjects  repository.SubjectRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(
	subjects repository.SubjectRepository,
	classes repository.ClassRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubjectService {
	return &subjectService{
		subjects:  subjects,
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "subject_service").Logger(),
	}
}

func (s *subjectService) Create(ctx context.Context, actor Actor, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return dto.SubjectResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	if payload.ClassID != nil {
		if _, err := s.classes.GetByID(ctx, *payload.ClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SubjectResponse{}, ErrClassNotFound
			}
			return dto.SubjectResponse{}, err
		}
	}

	subject := models.Subject{
		Name:        payload.Name,
		Coefficient: payload.Coefficient,
		TeacherID:   payload.TeacherID,
		ClassID:     payload.ClassID,
	}
	if subject.Coefficient == 0 {
		subject.Coefficient = 1
	}

	if err := s.subjects.Create(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Uint("subject_id", subject.ID).Str("name", subject.Name).Msg("subject created")
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Get(ctx context.Context, id uint) (dto.SubjectResponse, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubjectResponse{}, ErrSubjectNotFound
	}
	if err != nil {
		return dto.SubjectResponse{}, err
	}
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) List(ctx context.Context, classID uint) ([]dto.SubjectResponse, error) {
	var subjects []models.Subject
	var err error
	if classID != 0 {
		subjects, err = s.subjects.ListByClass(ctx, classID)
	} else {
		subjects, err = s.subjects.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return dto.NewSubjectResponseSlice(subjects), nil
}

func (s *subjectService) Update(ctx context.Context, actor Actor, id uint, payload dto.SubjectUpdateRequest) (dto.SubjectResponse, error) {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return dto.SubjectResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject, err := s.subjects.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubjectResponse{}, ErrSubjectNotFound
	}
	if err != nil {
		return dto.SubjectResponse{}, err
	}

	if payload.Name != nil {
		subject.Name = *payload.Name
	}
	if payload.Coefficient != nil {
		subject.Coefficient = *payload.Coefficient
	}
	if payload.TeacherID != nil {
		subject.TeacherID = payload.TeacherID
	}
	if payload.ClassID != nil {
		if _, err := s.classes.GetByID(ctx, *payload.ClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SubjectResponse{}, ErrClassNotFound
			}
			return dto.SubjectResponse{}, err
		}
		subject.ClassID = payload.ClassID
	}

	subject.Teacher = nil
	subject.Class = nil
	if err := s.subjects.Update(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return err
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	s.logger.Info().Uint("subject_id", id).Msg("subject deleted")
	return nil
}
