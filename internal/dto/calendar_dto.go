package dto

import (
	"time"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// SchoolYearCreateRequest is the payload for creating a school year.
type SchoolYearCreateRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=64"`
	StartsAt string `json:"starts_at" validate:"required,datetime=2006-01-02"`
	EndsAt   string `json:"ends_at" validate:"required,datetime=2006-01-02"`
}

// TrimesterCreateRequest is the payload for creating a trimester inside a
// school year. The date range must fall within the parent year.
type TrimesterCreateRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=64"`
	StartsAt     string `json:"starts_at" validate:"required,datetime=2006-01-02"`
	EndsAt       string `json:"ends_at" validate:"required,datetime=2006-01-02"`
	Position     int    `json:"position" validate:"min=0"`
	SchoolYearID uint   `json:"school_year_id" validate:"required"`
}

// PeriodCreateRequest is the payload for creating a period inside a
// trimester. The date range must fall within the parent trimester.
type PeriodCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=64"`
	StartsAt    string `json:"starts_at" validate:"required,datetime=2006-01-02"`
	EndsAt      string `json:"ends_at" validate:"required,datetime=2006-01-02"`
	Position    int    `json:"position" validate:"min=0"`
	TrimesterID uint   `json:"trimester_id" validate:"required"`
}

// SchoolYearResponse is the serialized representation of a school year.
type SchoolYearResponse struct {
	ID         uint                `json:"id"`
	Name       string              `json:"name"`
	StartsAt   time.Time           `json:"starts_at"`
	EndsAt     time.Time           `json:"ends_at"`
	Trimesters []TrimesterResponse `json:"trimesters,omitempty"`
}

// TrimesterResponse is the serialized representation of a trimester.
type TrimesterResponse struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	StartsAt     time.Time        `json:"starts_at"`
	EndsAt       time.Time        `json:"ends_at"`
	Position     int              `json:"position"`
	SchoolYearID uint             `json:"school_year_id"`
	Periods      []PeriodResponse `json:"periods,omitempty"`
}

// PeriodResponse is the serialized representation of a period.
type PeriodResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Position    int       `json:"position"`
	TrimesterID uint      `json:"trimester_id"`
}

// NewSchoolYearResponse converts a school-year model into a DTO.
func NewSchoolYearResponse(year models.SchoolYear) SchoolYearResponse {
	trimesters := make([]TrimesterResponse, 0, len(year.Trimesters))
	for _, trimester := range year.Trimesters {
		trimesters = append(trimesters, NewTrimesterResponse(trimester))
	}

	return SchoolYearResponse{
		ID:         year.ID,
		Name:       year.Name,
		StartsAt:   year.StartsAt,
		EndsAt:     year.EndsAt,
		Trimesters: trimesters,
	}
}

// NewTrimesterResponse converts a trimester model into a DTO.
func NewTrimesterResponse(trimester models.Trimester) TrimesterResponse {
	periods := make([]PeriodResponse, 0, len(trimester.Periods))
	for _, period := range trimester.Periods {
		periods = append(periods, NewPeriodResponse(period))
	}

	return TrimesterResponse{
		ID:           trimester.ID,
		Name:         trimester.Name,
		StartsAt:     trimester.StartsAt,
		EndsAt:       trimester.EndsAt,
		Position:     trimester.Position,
		SchoolYearID: trimester.SchoolYearID,
		Periods:      periods,
	}
}

// NewPeriodResponse converts a period model into a DTO.
func NewPeriodResponse(period models.Period) PeriodResponse {
	return PeriodResponse{
		ID:          period.ID,
		Name:        period.Name,
		StartsAt:    period.StartsAt,
		EndsAt:      period.EndsAt,
		Position:    period.Position,
		TrimesterID: period.TrimesterID,
	}
}
