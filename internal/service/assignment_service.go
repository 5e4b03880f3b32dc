package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

const assignmentMaxFileSize = 10 << 20

var (
	// ErrAttachmentTooLarge signals an assignment attachment over the size cap.
	ErrAttachmentTooLarge = errors.New("attachment exceeds the maximum allowed size")
	// ErrAttachmentType signals an attachment of a disallowed content type.
	ErrAttachmentType = errors.New("attachment content type is not allowed")
	// ErrUnknownSubdivision signals an assignment targeting a subdivision the
	// class does not declare.
	ErrUnknownSubdivision = errors.New("class does not declare this subdivision")
)

var allowedAttachmentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/msword": {},
}

// FileUploader stores an attachment and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// AssignmentService publishes homework to class subdivisions. Creation fans
// a notification out to the guardians of every targeted student.
type AssignmentService interface {
	Create(ctx context.Context, actor Actor, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentCreatedResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	List(ctx context.Context, classID uint, subdivision string) ([]dto.AssignmentResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type assignmentService struct {
	assignments   repository.AssignmentRepository
	classes       repository.ClassRepository
	notifications NotificationService
	uploader      FileUploader
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewAssignmentService constructs an assignment service. uploader may be nil;
// attachments are then rejected.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	classes repository.ClassRepository,
	notifications NotificationService,
	uploader FileUploader,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments:   assignments,
		classes:       classes,
		notifications: notifications,
		uploader:      uploader,
		validator:     validate,
		logger:        logger.With().Str("component", "assignment_service").Logger(),
		tracer:        otel.Tracer("github.com/scolaris/scolaris-go-api/internal/service/assignment"),
	}
}

func (s *assignmentService) Create(ctx context.Context, actor Actor, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentCreatedResponse, error) {
	if err := authorize(actor, access.OpCreateAssignment); err != nil {
		return dto.AssignmentCreatedResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentCreatedResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentCreatedResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "assignments.create", trace.WithAttributes(
		attribute.Int64("class_id", int64(payload.ClassID)),
		attribute.String("subdivision", payload.Subdivision),
	))
	defer span.End()

	class, err := s.classes.GetByID(ctx, payload.ClassID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AssignmentCreatedResponse{}, ErrClassNotFound
	}
	if err != nil {
		return dto.AssignmentCreatedResponse{}, err
	}
	if payload.Subdivision != "" && !class.HasSubdivision(payload.Subdivision) {
		return dto.AssignmentCreatedResponse{}, ErrUnknownSubdivision
	}

	fileURL := ""
	if file != nil {
		fileURL, err = s.storeAttachment(ctx, file)
		if err != nil {
			span.RecordError(err)
			return dto.AssignmentCreatedResponse{}, err
		}
	}

	assignment := models.Assignment{
		Title:       payload.Title,
		Description: payload.Description,
		DueDate:     dueDate,
		FileURL:     fileURL,
		ClassID:     payload.ClassID,
		Subdivision: payload.Subdivision,
		SubjectID:   payload.SubjectID,
		TeacherID:   actor.ID,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		span.RecordError(err)
		return dto.AssignmentCreatedResponse{}, err
	}

	notified, err := s.notifications.NotifyAssignment(ctx, assignment)
	if err != nil {
		s.logger.Warn().Err(err).Uint("assignment_id", assignment.ID).Msg("assignment fan-out incomplete")
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("class_id", assignment.ClassID).
		Int("notifications", notified).
		Msg("assignment published")

	return dto.AssignmentCreatedResponse{
		Assignment:    dto.NewAssignmentResponse(assignment),
		Notifications: notified,
	}, nil
}

// storeAttachment sniffs the real content type from the bytes rather than
// trusting the client-supplied header.
func (s *assignmentService) storeAttachment(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("attachment storage is not configured")
	}
	if file.Size > assignmentMaxFileSize {
		return "", ErrAttachmentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, assignmentMaxFileSize+1)); err != nil {
		return "", err
	}
	if buf.Len() > assignmentMaxFileSize {
		return "", ErrAttachmentTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	if _, ok := allowedAttachmentTypes[mime.String()]; !ok {
		return "", ErrAttachmentType
	}

	return s.uploader.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AssignmentResponse{}, ErrRecordNotFound
	}
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) List(ctx context.Context, classID uint, subdivision string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx, classID, subdivision)
	if err != nil {
		return nil, err
	}
	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Update(ctx context.Context, actor Actor, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := authorize(actor, access.OpCreateAssignment); err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AssignmentResponse{}, ErrRecordNotFound
	}
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.DueDate = dueDate
	}

	assignment.Class = nil
	assignment.Subject = nil
	assignment.Teacher = nil
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}
	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpCreateAssignment); err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}
