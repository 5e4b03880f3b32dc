package dto

import (
	"time"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// CourseworkScoreRequest records one classroom assessment result. A nil
// grade registers the assessment as pending; pending entries are excluded
// from averages.
type CourseworkScoreRequest struct {
	StudentID uint     `json:"student_id" validate:"required"`
	SubjectID uint     `json:"subject_id" validate:"required"`
	PeriodID  uint     `json:"period_id" validate:"required"`
	Grade     *float64 `json:"grade" validate:"omitempty,min=0,max=20"`
	ScoredAt  *string  `json:"scored_at" validate:"omitempty,datetime=2006-01-02"`
}

// ExamScoreRequest records one term exam result.
type ExamScoreRequest struct {
	StudentID   uint     `json:"student_id" validate:"required"`
	SubjectID   uint     `json:"subject_id" validate:"required"`
	TrimesterID uint     `json:"trimester_id" validate:"required"`
	Grade       *float64 `json:"grade" validate:"omitempty,min=0,max=20"`
	ScoredAt    *string  `json:"scored_at" validate:"omitempty,datetime=2006-01-02"`
}

// TrimesterGradeResult is the outcome of one trimester-grade computation.
type TrimesterGradeResult struct {
	Final         float64 `json:"final"`
	CourseworkAvg float64 `json:"coursework_avg"`
	ExamScore     float64 `json:"exam_score"`
}

// AnnualGradeResult is the outcome of one annual-grade computation.
type AnnualGradeResult struct {
	Final     float64                       `json:"final"`
	Breakdown []models.AnnualBreakdownEntry `json:"breakdown"`
}

// RecomputeTrimesterRequest triggers the bulk trimester-grade recompute.
type RecomputeTrimesterRequest struct {
	TrimesterID uint `json:"trimester_id" validate:"required"`
}

// RecomputeAnnualRequest triggers the bulk annual-grade recompute.
type RecomputeAnnualRequest struct {
	SchoolYearID uint `json:"school_year_id" validate:"required"`
}

// RecomputeResponse reports how many derived grade records were upserted.
type RecomputeResponse struct {
	Computed int `json:"computed"`
}

// TrimesterGradeResponse is the serialized representation of a stored
// trimester grade.
type TrimesterGradeResponse struct {
	ID            uint      `json:"id"`
	StudentID     uint      `json:"student_id"`
	SubjectID     uint      `json:"subject_id"`
	TrimesterID   uint      `json:"trimester_id"`
	Final         float64   `json:"final"`
	CourseworkAvg float64   `json:"coursework_avg"`
	ExamScore     float64   `json:"exam_score"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewTrimesterGradeResponse converts a stored trimester grade into a DTO.
func NewTrimesterGradeResponse(grade models.TrimesterGrade) TrimesterGradeResponse {
	detail := grade.Detail.Data()
	return TrimesterGradeResponse{
		ID:            grade.ID,
		StudentID:     grade.StudentID,
		SubjectID:     grade.SubjectID,
		TrimesterID:   grade.TrimesterID,
		Final:         grade.Final,
		CourseworkAvg: detail.CourseworkAvg,
		ExamScore:     detail.ExamScore,
		UpdatedAt:     grade.UpdatedAt,
	}
}

// AnnualGradeResponse is the serialized representation of a stored annual
// grade together with its promotion outcome, if any.
type AnnualGradeResponse struct {
	ID              uint                          `json:"id"`
	StudentID       uint                          `json:"student_id"`
	SubjectID       uint                          `json:"subject_id"`
	SchoolYearID    uint                          `json:"school_year_id"`
	Final           float64                       `json:"final"`
	Breakdown       []models.AnnualBreakdownEntry `json:"breakdown"`
	AutoPromoted    bool                          `json:"auto_promoted"`
	NextClassID     *uint                         `json:"next_class_id,omitempty"`
	NextSubdivision string                        `json:"next_subdivision,omitempty"`
	UpdatedAt       time.Time                     `json:"updated_at"`
}

// NewAnnualGradeResponse converts a stored annual grade into a DTO.
func NewAnnualGradeResponse(grade models.AnnualGrade) AnnualGradeResponse {
	return AnnualGradeResponse{
		ID:              grade.ID,
		StudentID:       grade.StudentID,
		SubjectID:       grade.SubjectID,
		SchoolYearID:    grade.SchoolYearID,
		Final:           grade.Final,
		Breakdown:       grade.Breakdown.Data(),
		AutoPromoted:    grade.AutoPromoted,
		NextClassID:     grade.NextClassID,
		NextSubdivision: grade.NextSubdivision,
		UpdatedAt:       grade.UpdatedAt,
	}
}

// NewAnnualGradeResponseSlice converts stored annual grades into DTOs.
func NewAnnualGradeResponseSlice(grades []models.AnnualGrade) []AnnualGradeResponse {
	responses := make([]AnnualGradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, NewAnnualGradeResponse(grade))
	}
	return responses
}
