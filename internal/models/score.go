package models

import "time"

// CourseworkScore is a single graded classroom assessment for a student in
// a subject during a period. Several entries may exist for the same
// (student, subject, period) triple; entries with a nil grade are pending
// and excluded from averages.
type CourseworkScore struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StudentID uint       `gorm:"index:idx_coursework_triple;not null" json:"student_id"`
	SubjectID uint       `gorm:"index:idx_coursework_triple;not null" json:"subject_id"`
	PeriodID  uint       `gorm:"index:idx_coursework_triple;not null" json:"period_id"`
	Grade     *float64   `json:"grade"`
	ScoredAt  *time.Time `json:"scored_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ExamScore is the term exam result for a student in a subject. At most one
// entry is used per (student, subject, trimester); when duplicates exist the
// earliest entry wins.
type ExamScore struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StudentID   uint       `gorm:"index:idx_exam_triple;not null" json:"student_id"`
	SubjectID   uint       `gorm:"index:idx_exam_triple;not null" json:"subject_id"`
	TrimesterID uint       `gorm:"index:idx_exam_triple;not null" json:"trimester_id"`
	Grade       *float64   `json:"grade"`
	ScoredAt    *time.Time `json:"scored_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
