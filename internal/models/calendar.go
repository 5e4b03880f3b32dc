package models

import "time"

// SchoolYear is the top-level grading calendar entity. Trimesters reference
// their school year; the year does not own them as embedded rows so that
// derived grade records can key on trimester ids directly.
type SchoolYear struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"size:64;not null" json:"name"`
	StartsAt   time.Time   `gorm:"not null" json:"starts_at"`
	EndsAt     time.Time   `gorm:"not null" json:"ends_at"`
	Trimesters []Trimester `json:"trimesters,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Trimester is a grading term inside a school year. It carries one exam
// score per (student, subject) and is composed of ordered periods.
type Trimester struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	StartsAt     time.Time `gorm:"not null" json:"starts_at"`
	EndsAt       time.Time `gorm:"not null" json:"ends_at"`
	Position     int       `gorm:"not null" json:"position"`
	SchoolYearID uint      `gorm:"index;not null" json:"school_year_id"`
	Periods      []Period  `json:"periods,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Period is the smallest grading interval; coursework scores attach to it.
type Period struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	StartsAt    time.Time `gorm:"not null" json:"starts_at"`
	EndsAt      time.Time `gorm:"not null" json:"ends_at"`
	Position    int       `gorm:"not null" json:"position"`
	TrimesterID uint      `gorm:"index;not null" json:"trimester_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Contains reports whether the given range falls inside the school year.
func (y SchoolYear) Contains(start, end time.Time) bool {
	return !start.Before(y.StartsAt) && !end.After(y.EndsAt)
}

// Contains reports whether the given range falls inside the trimester.
func (t Trimester) Contains(start, end time.Time) bool {
	return !start.Before(t.StartsAt) && !end.After(t.EndsAt)
}
