package models

import (
	"time"

	"gorm.io/datatypes"
)

// TrimesterDetail stores the two input components behind a blended
// trimester grade.
type TrimesterDetail struct {
	CourseworkAvg float64 `json:"coursework_avg"`
	ExamScore     float64 `json:"exam_score"`
}

// TrimesterGrade is the derived blended grade for one (student, subject,
// trimester) triple. The triple is unique; recomputation overwrites the
// final value in place.
type TrimesterGrade struct {
	ID          uint                                   `gorm:"primaryKey" json:"id"`
	StudentID   uint                                   `gorm:"uniqueIndex:idx_trimester_grade;not null" json:"student_id"`
	SubjectID   uint                                   `gorm:"uniqueIndex:idx_trimester_grade;not null" json:"subject_id"`
	TrimesterID uint                                   `gorm:"uniqueIndex:idx_trimester_grade;not null" json:"trimester_id"`
	Final       float64                                `gorm:"not null" json:"final"`
	Detail      datatypes.JSONType[TrimesterDetail]    `json:"detail"`
	CreatedAt   time.Time                              `json:"created_at"`
	UpdatedAt   time.Time                              `json:"updated_at"`
}

// AnnualBreakdownEntry is one trimester's contribution to an annual grade.
type AnnualBreakdownEntry struct {
	TrimesterID uint    `json:"trimester_id"`
	Grade       float64 `json:"grade"`
}

// AnnualGrade is the derived yearly grade for one (student, subject,
// school year) triple, plus the promotion outcome once a decision has
// been recorded.
type AnnualGrade struct {
	ID              uint                                        `gorm:"primaryKey" json:"id"`
	StudentID       uint                                        `gorm:"uniqueIndex:idx_annual_grade;not null" json:"student_id"`
	SubjectID       uint                                        `gorm:"uniqueIndex:idx_annual_grade;not null" json:"subject_id"`
	SchoolYearID    uint                                        `gorm:"uniqueIndex:idx_annual_grade;not null" json:"school_year_id"`
	Final           float64                                     `gorm:"not null" json:"final"`
	Breakdown       datatypes.JSONType[[]AnnualBreakdownEntry]  `json:"breakdown"`
	AutoPromoted    bool                                        `gorm:"not null;default:false" json:"auto_promoted"`
	NextClassID     *uint                                       `json:"next_class_id"`
	NextSubdivision string                                      `gorm:"size:32" json:"next_subdivision"`
	CreatedAt       time.Time                                   `json:"created_at"`
	UpdatedAt       time.Time                                   `json:"updated_at"`
}
