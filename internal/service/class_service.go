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

// ClassService manages classes and their subdivisions.
type ClassService interface {
	Create(ctx context.Context, actor Actor, payload dto.ClassCreateRequest) (dto.ClassResponse, error)
	Get(ctx context.Context, id uint) (dto.ClassResponse, error)
	List(ctx context.Context) ([]dto.ClassResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type classService struct {
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassService constructs the class service.
func NewClassService(classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) Create(ctx context.Context, actor Actor, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return dto.ClassResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:               payload.Name,
		Level:              payload.Level,
		Kind:               models.ClassKind(payload.Kind),
		PromotionThreshold: payload.PromotionThreshold,
		Subdivisions:       buildSubdivisions(payload.Subdivisions),
	}
	if class.PromotionThreshold == 0 {
		class.PromotionThreshold = DefaultPromotionThreshold
	}

	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Str("name", class.Name).Msg("class created")
	return dto.NewClassResponse(class), nil
}

func (s *classService) Get(ctx context.Context, id uint) (dto.ClassResponse, error) {
	class, err := s.classes.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ClassResponse{}, ErrClassNotFound
	}
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class), nil
}

func (s *classService) List(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewClassResponseSlice(classes), nil
}

func (s *classService) Update(ctx context.Context, actor Actor, id uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error) {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return dto.ClassResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ClassResponse{}, ErrClassNotFound
	}
	if err != nil {
		return dto.ClassResponse{}, err
	}

	if payload.Name != nil {
		class.Name = *payload.Name
	}
	if payload.PromotionThreshold != nil {
		class.PromotionThreshold = *payload.PromotionThreshold
	}

	if payload.Subdivisions != nil {
		if err := s.classes.ReplaceSubdivisions(ctx, &class, buildSubdivisions(payload.Subdivisions)); err != nil {
			return dto.ClassResponse{}, err
		}
	}

	subdivisions := class.Subdivisions
	class.Subdivisions = nil
	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}
	class.Subdivisions = subdivisions

	return dto.NewClassResponse(class), nil
}

func (s *classService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}
	s.logger.Info().Uint("class_id", id).Msg("class deleted")
	return nil
}

func buildSubdivisions(requests []dto.SubdivisionRequest) []models.Subdivision {
	subdivisions := make([]models.Subdivision, 0, len(requests))
	for i, request := range requests {
		subdivisions = append(subdivisions, models.Subdivision{
			Name:          request.Name,
			Position:      i,
			LeadTeacherID: request.LeadTeacherID,
		})
	}
	return subdivisions
}
