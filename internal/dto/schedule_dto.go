package dto

import (
	"time"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// ScheduleUpsertRequest creates or replaces the weekly timetable of a
// class subdivision for a school year.
type ScheduleUpsertRequest struct {
	ClassID      uint                 `json:"class_id" validate:"required"`
	Subdivision  string               `json:"subdivision" validate:"omitempty,max=32"`
	SchoolYearID uint                 `json:"school_year_id" validate:"required"`
	Fixed        bool                 `json:"fixed"`
	Days         []models.ScheduleDay `json:"days" validate:"required,min=1,dive"`
}

// ScheduleResponse is the serialized representation of a timetable.
type ScheduleResponse struct {
	ID           uint                 `json:"id"`
	ClassID      uint                 `json:"class_id"`
	Subdivision  string               `json:"subdivision,omitempty"`
	SchoolYearID uint                 `json:"school_year_id"`
	Fixed        bool                 `json:"fixed"`
	Days         []models.ScheduleDay `json:"days"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewScheduleResponse converts a schedule model into a DTO.
func NewScheduleResponse(schedule models.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:           schedule.ID,
		ClassID:      schedule.ClassID,
		Subdivision:  schedule.Subdivision,
		SchoolYearID: schedule.SchoolYearID,
		Fixed:        schedule.Fixed,
		Days:         schedule.Days.Data(),
		UpdatedAt:    schedule.UpdatedAt,
	}
}
