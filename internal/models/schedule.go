package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScheduleSlot is one timetable entry within a day: either a taught course
// or a break.
type ScheduleSlot struct {
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	SubjectID *uint  `json:"subject_id"`
	TeacherID *uint  `json:"teacher_id"`
	IsBreak   bool   `json:"is_break"`
}

// ScheduleDay groups the slots of one weekday.
type ScheduleDay struct {
	Name  string         `json:"name"`
	Slots []ScheduleSlot `json:"slots"`
}

// Schedule is the weekly timetable of a class subdivision for a school year.
type Schedule struct {
	ID           uint                                `gorm:"primaryKey" json:"id"`
	ClassID      uint                                `gorm:"index;not null" json:"class_id"`
	Class        *Class                              `json:"class,omitempty"`
	Subdivision  string                              `gorm:"size:32" json:"subdivision"`
	SchoolYearID uint                                `gorm:"index;not null" json:"school_year_id"`
	Fixed        bool                                `gorm:"not null;default:true" json:"fixed"`
	Days         datatypes.JSONType[[]ScheduleDay]   `json:"days"`
	CreatedAt    time.Time                           `json:"created_at"`
	UpdatedAt    time.Time                           `json:"updated_at"`
}
