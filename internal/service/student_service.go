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

// ErrMatriculeTaken signals enrollment with an already used matricule.
var ErrMatriculeTaken = errors.New("matricule is already registered")

// StudentService manages student enrollment and placement.
type StudentService interface {
	Create(ctx context.Context, actor Actor, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	List(ctx context.Context, classID uint, subdivision string) ([]dto.StudentResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type studentService struct {
	students  repository.StudentRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(
	students repository.StudentRepository,
	classes repository.ClassRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students:  students,
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, actor Actor, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := authorize(actor, access.OpManageStudents); err != nil {
		return dto.StudentResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Matricule:   payload.Matricule,
		ClassID:     payload.ClassID,
		Subdivision: payload.Subdivision,
	}
	if payload.Subdivision != "" {
		student.SubdivisionMethod = models.SubdivisionManual
	}
	if payload.BirthDate != nil {
		birthDate, err := time.Parse("2006-01-02", *payload.BirthDate)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		student.BirthDate = &birthDate
	}

	if err := s.checkPlacement(ctx, payload.ClassID, payload.Subdivision); err != nil {
		return dto.StudentResponse{}, err
	}

	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return dto.StudentResponse{}, ErrMatriculeTaken
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("matricule", student.Matricule).Msg("student enrolled")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, ErrStudentNotFound
	}
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, classID uint, subdivision string) ([]dto.StudentResponse, error) {
	var students []models.Student
	var err error
	switch {
	case classID != 0 && subdivision != "":
		students, err = s.students.ListByClassSubdivision(ctx, classID, subdivision)
	case classID != 0:
		students, err = s.students.ListByClass(ctx, classID)
	default:
		students, err = s.students.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Update(ctx context.Context, actor Actor, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := authorize(actor, access.OpManageStudents); err != nil {
		return dto.StudentResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, ErrStudentNotFound
	}
	if err != nil {
		return dto.StudentResponse{}, err
	}

	if payload.FirstName != nil {
		student.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		student.LastName = *payload.LastName
	}
	if payload.ClassID != nil {
		student.ClassID = payload.ClassID
	}
	if payload.Subdivision != nil {
		student.Subdivision = *payload.Subdivision
		student.SubdivisionMethod = models.SubdivisionManual
	}

	if err := s.checkPlacement(ctx, student.ClassID, student.Subdivision); err != nil {
		return dto.StudentResponse{}, err
	}

	student.Class = nil
	student.Guardians = nil
	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpManageStudents); err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	s.logger.Info().Uint("student_id", id).Msg("student removed")
	return nil
}

// checkPlacement verifies that the class exists and, when a subdivision is
// named, that the class declares it.
func (s *studentService) checkPlacement(ctx context.Context, classID *uint, subdivision string) error {
	if classID == nil {
		return nil
	}
	class, err := s.classes.GetByID(ctx, *classID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrClassNotFound
	}
	if err != nil {
		return err
	}
	if subdivision != "" && !class.HasSubdivision(subdivision) {
		return ErrUnknownSubdivision
	}
	return nil
}
