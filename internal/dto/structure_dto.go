package dto

import (
	"time"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// SubdivisionRequest declares one named section of a class.
type SubdivisionRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=32"`
	LeadTeacherID *uint  `json:"lead_teacher_id"`
}

// ClassCreateRequest is the payload for creating a class.
type ClassCreateRequest struct {
	Name               string               `json:"name" validate:"required,min=1,max=100"`
	Level              int                  `json:"level" validate:"required,min=1"`
	Kind               string               `json:"kind" validate:"required,oneof=primary secondary"`
	PromotionThreshold float64              `json:"promotion_threshold" validate:"omitempty,min=0,max=20"`
	Subdivisions       []SubdivisionRequest `json:"subdivisions" validate:"dive"`
}

// ClassUpdateRequest is the payload for updating a class.
type ClassUpdateRequest struct {
	Name               *string              `json:"name" validate:"omitempty,min=1,max=100"`
	PromotionThreshold *float64             `json:"promotion_threshold" validate:"omitempty,min=0,max=20"`
	Subdivisions       []SubdivisionRequest `json:"subdivisions" validate:"omitempty,dive"`
}

// SubdivisionResponse is the serialized representation of a class section.
type SubdivisionResponse struct {
	Name          string `json:"name"`
	LeadTeacherID *uint  `json:"lead_teacher_id,omitempty"`
}

// ClassResponse is the serialized representation of a class.
type ClassResponse struct {
	ID                 uint                  `json:"id"`
	Name               string                `json:"name"`
	Level              int                   `json:"level"`
	Kind               string                `json:"kind"`
	PromotionThreshold float64               `json:"promotion_threshold"`
	Subdivisions       []SubdivisionResponse `json:"subdivisions"`
	CreatedAt          time.Time             `json:"created_at"`
}

// NewClassResponse converts a class model into a DTO.
func NewClassResponse(class models.Class) ClassResponse {
	subdivisions := make([]SubdivisionResponse, 0, len(class.Subdivisions))
	for _, sub := range class.Subdivisions {
		subdivisions = append(subdivisions, SubdivisionResponse{
			Name:          sub.Name,
			LeadTeacherID: sub.LeadTeacherID,
		})
	}

	return ClassResponse{
		ID:                 class.ID,
		Name:               class.Name,
		Level:              class.Level,
		Kind:               string(class.Kind),
		PromotionThreshold: class.PromotionThreshold,
		Subdivisions:       subdivisions,
		CreatedAt:          class.CreatedAt,
	}
}

// NewClassResponseSlice converts a slice of class models into DTOs.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}
	return responses
}

// SubjectCreateRequest is the payload for creating a subject.
type SubjectCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Coefficient int    `json:"coefficient" validate:"omitempty,min=1"`
	TeacherID   *uint  `json:"teacher_id"`
	ClassID     *uint  `json:"class_id"`
}

// SubjectUpdateRequest is the payload for updating a subject.
type SubjectUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Coefficient *int    `json:"coefficient" validate:"omitempty,min=1"`
	TeacherID   *uint   `json:"teacher_id"`
	ClassID     *uint   `json:"class_id"`
}

// SubjectResponse is the serialized representation of a subject.
type SubjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Coefficient int       `json:"coefficient"`
	TeacherID   *uint     `json:"teacher_id,omitempty"`
	ClassID     *uint     `json:"class_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSubjectResponse converts a subject model into a DTO.
func NewSubjectResponse(subject models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:          subject.ID,
		Name:        subject.Name,
		Coefficient: subject.Coefficient,
		TeacherID:   subject.TeacherID,
		ClassID:     subject.ClassID,
		CreatedAt:   subject.CreatedAt,
	}
}

// NewSubjectResponseSlice converts a slice of subject models into DTOs.
func NewSubjectResponseSlice(subjects []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, NewSubjectResponse(subject))
	}
	return responses
}
