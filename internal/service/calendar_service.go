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

var (
	// ErrInvertedRange signals a calendar entity whose end precedes its start.
	ErrInvertedRange = errors.New("end date precedes start date")
	// ErrRangeOutsideParent signals a trimester or period whose dates fall
	// outside its parent's range.
	ErrRangeOutsideParent = errors.New("date range falls outside the parent range")
)

const calendarDateLayout = "2006-01-02"

// CalendarService manages the grading calendar: school years, their
// trimesters, and the periods inside each trimester.
type CalendarService interface {
	CreateSchoolYear(ctx context.Context, actor Actor, payload dto.SchoolYearCreateRequest) (dto.SchoolYearResponse, error)
	GetSchoolYear(ctx context.Context, id uint) (dto.SchoolYearResponse, error)
	ListSchoolYears(ctx context.Context) ([]dto.SchoolYearResponse, error)
	DeleteSchoolYear(ctx context.Context, actor Actor, id uint) error

	CreateTrimester(ctx context.Context, actor Actor, payload dto.TrimesterCreateRequest) (dto.TrimesterResponse, error)
	GetTrimester(ctx context.Context, id uint) (dto.TrimesterResponse, error)
	DeleteTrimester(ctx context.Context, actor Actor, id uint) error

	CreatePeriod(ctx context.Context, actor Actor, payload dto.PeriodCreateRequest) (dto.PeriodResponse, error)
	DeletePeriod(ctx context.Context, actor Actor, id uint) error
}

type calendarService struct {
	calendar  repository.CalendarRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCalendarService constructs the calendar service.
func NewCalendarService(calendar repository.CalendarRepository, validate *validator.Validate, logger zerolog.Logger) CalendarService {
	return &calendarService{
		calendar:  calendar,
		validator: validate,
		logger:    logger.With().Str("component", "calendar_service").Logger(),
	}
}

func (s *calendarService) CreateSchoolYear(ctx context.Context, actor Actor, payload dto.SchoolYearCreateRequest) (dto.SchoolYearResponse, error) {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return dto.SchoolYearResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SchoolYearResponse{}, err
	}

	startsAt, endsAt, err := parseRange(payload.StartsAt, payload.EndsAt)
	if err != nil {
		return dto.SchoolYearResponse{}, err
	}

	year := models.SchoolYear{Name: payload.Name, StartsAt: startsAt, EndsAt: endsAt}
	if err := s.calendar.CreateSchoolYear(ctx, &year); err != nil {
		return dto.SchoolYearResponse{}, err
	}

	s.logger.Info().Uint("school_year_id", year.ID).Str("name", year.Name).Msg("school year created")
	return dto.NewSchoolYearResponse(year), nil
}

func (s *calendarService) GetSchoolYear(ctx context.Context, id uint) (dto.SchoolYearResponse, error) {
	year, err := s.calendar.GetSchoolYear(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SchoolYearResponse{}, ErrSchoolYearNotFound
	}
	if err != nil {
		return dto.SchoolYearResponse{}, err
	}
	return dto.NewSchoolYearResponse(year), nil
}

func (s *calendarService) ListSchoolYears(ctx context.Context) ([]dto.SchoolYearResponse, error) {
	years, err := s.calendar.ListSchoolYears(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SchoolYearResponse, 0, len(years))
	for _, year := range years {
		responses = append(responses, dto.NewSchoolYearResponse(year))
	}
	return responses, nil
}

func (s *calendarService) DeleteSchoolYear(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return err
	}
	if err := s.calendar.DeleteSchoolYear(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSchoolYearNotFound
		}
		return err
	}
	return nil
}

func (s *calendarService) CreateTrimester(ctx context.Context, actor Actor, payload dto.TrimesterCreateRequest) (dto.TrimesterResponse, error) {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return dto.TrimesterResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TrimesterResponse{}, err
	}

	startsAt, endsAt, err := parseRange(payload.StartsAt, payload.EndsAt)
	if err != nil {
		return dto.TrimesterResponse{}, err
	}

	year, err := s.calendar.GetSchoolYear(ctx, payload.SchoolYearID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TrimesterResponse{}, ErrSchoolYearNotFound
	}
	if err != nil {
		return dto.TrimesterResponse{}, err
	}
	if !year.Contains(startsAt, endsAt) {
		return dto.TrimesterResponse{}, ErrRangeOutsideParent
	}

	trimester := models.Trimester{
		Name:         payload.Name,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		Position:     payload.Position,
		SchoolYearID: payload.SchoolYearID,
	}
	if err := s.calendar.CreateTrimester(ctx, &trimester); err != nil {
		return dto.TrimesterResponse{}, err
	}
	return dto.NewTrimesterResponse(trimester), nil
}

func (s *calendarService) GetTrimester(ctx context.Context, id uint) (dto.TrimesterResponse, error) {
	trimester, err := s.calendar.GetTrimester(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TrimesterResponse{}, ErrTrimesterNotFound
	}
	if err != nil {
		return dto.TrimesterResponse{}, err
	}
	return dto.NewTrimesterResponse(trimester), nil
}

func (s *calendarService) DeleteTrimester(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return err
	}
	if err := s.calendar.DeleteTrimester(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrimesterNotFound
		}
		return err
	}
	return nil
}

func (s *calendarService) CreatePeriod(ctx context.Context, actor Actor, payload dto.PeriodCreateRequest) (dto.PeriodResponse, error) {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return dto.PeriodResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.PeriodResponse{}, err
	}

	startsAt, endsAt, err := parseRange(payload.StartsAt, payload.EndsAt)
	if err != nil {
		return dto.PeriodResponse{}, err
	}

	trimester, err := s.calendar.GetTrimester(ctx, payload.TrimesterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.PeriodResponse{}, ErrTrimesterNotFound
	}
	if err != nil {
		return dto.PeriodResponse{}, err
	}
	if !trimester.Contains(startsAt, endsAt) {
		return dto.PeriodResponse{}, ErrRangeOutsideParent
	}

	period := models.Period{
		Name:        payload.Name,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Position:    payload.Position,
		TrimesterID: payload.TrimesterID,
	}
	if err := s.calendar.CreatePeriod(ctx, &period); err != nil {
		return dto.PeriodResponse{}, err
	}
	return dto.NewPeriodResponse(period), nil
}

func (s *calendarService) DeletePeriod(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpManageStructure); err != nil {
		return err
	}
	if err := s.calendar.DeletePeriod(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		return err
	}
	return nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startsAt, err := time.Parse(calendarDateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endsAt, err := time.Parse(calendarDateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endsAt.Before(startsAt) {
		return time.Time{}, time.Time{}, ErrInvertedRange
	}
	return startsAt, endsAt, nil
}
