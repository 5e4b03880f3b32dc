package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// ScheduleService manages the weekly timetable of class subdivisions.
type ScheduleService interface {
	Upsert(ctx context.Context, actor Actor, payload dto.ScheduleUpsertRequest) (dto.ScheduleResponse, error)
	Find(ctx context.Context, classID uint, subdivision string, schoolYearID uint) (dto.ScheduleResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type scheduleService struct {
	schedules repository.ScheduleRepository
	classes   repository.ClassRepository
	calendar  repository.CalendarRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(
	schedules repository.ScheduleRepository,
	classes repository.ClassRepository,
	calendar repository.CalendarRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ScheduleService {
	return &scheduleService{
		schedules: schedules,
		classes:   classes,
		calendar:  calendar,
		validator: validate,
		logger:    logger.With().Str("component", "schedule_service").Logger(),
	}
}

// Upsert creates the timetable for a (class, subdivision, school year) or
// replaces its days when one already exists.
func (s *scheduleService) Upsert(ctx context.Context, actor Actor, payload dto.ScheduleUpsertRequest) (dto.ScheduleResponse, error) {
	if err := authorize(actor, access.OpManageSchedule); err != nil {
		return dto.ScheduleResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScheduleResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, payload.ClassID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ScheduleResponse{}, ErrClassNotFound
	}
	if err != nil {
		return dto.ScheduleResponse{}, err
	}
	if payload.Subdivision != "" && !class.HasSubdivision(payload.Subdivision) {
		return dto.ScheduleResponse{}, ErrUnknownSubdivision
	}
	if _, err := s.calendar.GetSchoolYear(ctx, payload.SchoolYearID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScheduleResponse{}, ErrSchoolYearNotFound
		}
		return dto.ScheduleResponse{}, err
	}

	existing, err := s.schedules.Find(ctx, payload.ClassID, payload.Subdivision, payload.SchoolYearID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ScheduleResponse{}, err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		schedule := models.Schedule{
			ClassID:      payload.ClassID,
			Subdivision:  payload.Subdivision,
			SchoolYearID: payload.SchoolYearID,
			Fixed:        payload.Fixed,
			Days:         datatypes.NewJSONType(payload.Days),
		}
		if err := s.schedules.Create(ctx, &schedule); err != nil {
			return dto.ScheduleResponse{}, err
		}
		s.logger.Info().Uint("schedule_id", schedule.ID).Uint("class_id", schedule.ClassID).Msg("timetable created")
		return dto.NewScheduleResponse(schedule), nil
	}

	existing.Fixed = payload.Fixed
	existing.Days = datatypes.NewJSONType(payload.Days)
	existing.Class = nil
	if err := s.schedules.Update(ctx, &existing); err != nil {
		return dto.ScheduleResponse{}, err
	}
	s.logger.Info().Uint("schedule_id", existing.ID).Uint("class_id", existing.ClassID).Msg("timetable replaced")
	return dto.NewScheduleResponse(existing), nil
}

func (s *scheduleService) Find(ctx context.Context, classID uint, subdivision string, schoolYearID uint) (dto.ScheduleResponse, error) {
	schedule, err := s.schedules.Find(ctx, classID, subdivision, schoolYearID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ScheduleResponse{}, ErrRecordNotFound
	}
	if err != nil {
		return dto.ScheduleResponse{}, err
	}
	return dto.NewScheduleResponse(schedule), nil
}

func (s *scheduleService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpManageSchedule); err != nil {
		return err
	}
	if err := s.schedules.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}
