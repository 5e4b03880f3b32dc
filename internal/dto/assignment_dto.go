package dto

import (
	"time"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// AssignmentCreateRequest is the payload for publishing homework to a
// class subdivision.
type AssignmentCreateRequest struct {
	Title       string `form:"title" json:"title" validate:"required,min=3,max=255"`
	Description string `form:"description" json:"description" validate:"omitempty"`
	DueDate     string `form:"due_date" json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ClassID     uint   `form:"class_id" json:"class_id" validate:"required"`
	Subdivision string `form:"subdivision" json:"subdivision" validate:"omitempty,max=32"`
	SubjectID   *uint  `form:"subject_id" json:"subject_id"`
}

// AssignmentUpdateRequest is the payload for updating homework.
type AssignmentUpdateRequest struct {
	Title       *string `form:"title" json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `form:"description" json:"description"`
	DueDate     *string `form:"due_date" json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AssignmentResponse is the serialized representation of homework.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	FileURL     string    `json:"file_url,omitempty"`
	ClassID     uint      `json:"class_id"`
	Subdivision string    `json:"subdivision,omitempty"`
	SubjectID   *uint     `json:"subject_id,omitempty"`
	TeacherID   uint      `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssignmentCreatedResponse bundles the stored assignment with the
// notification fan-out count.
type AssignmentCreatedResponse struct {
	Assignment    AssignmentResponse `json:"assignment"`
	Notifications int                `json:"notifications_created"`
}

// NewAssignmentResponse converts an assignment model into a DTO.
func NewAssignmentResponse(assignment models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          assignment.ID,
		Title:       assignment.Title,
		Description: assignment.Description,
		DueDate:     assignment.DueDate,
		FileURL:     assignment.FileURL,
		ClassID:     assignment.ClassID,
		Subdivision: assignment.Subdivision,
		SubjectID:   assignment.SubjectID,
		TeacherID:   assignment.TeacherID,
		CreatedAt:   assignment.CreatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}
	return responses
}
