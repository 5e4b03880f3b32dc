package dto

import (
	"time"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// StudentCreateRequest is the payload for enrolling a student.
type StudentCreateRequest struct {
	FirstName   string  `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string  `json:"last_name" validate:"required,min=2,max=100"`
	Matricule   string  `json:"matricule" validate:"required,min=3,max=32"`
	BirthDate   *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	ClassID     *uint   `json:"class_id"`
	Subdivision string  `json:"subdivision" validate:"omitempty,max=32"`
}

// StudentUpdateRequest is the payload for updating a student.
type StudentUpdateRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	ClassID     *uint   `json:"class_id"`
	Subdivision *string `json:"subdivision" validate:"omitempty,max=32"`
}

// AssignParentRequest binds a parent account to a set of students.
type AssignParentRequest struct {
	ParentID   uint   `json:"parent_id" validate:"required"`
	StudentIDs []uint `json:"student_ids" validate:"required,min=1,dive,required"`
}

// StudentResponse is the serialized representation of a student.
type StudentResponse struct {
	ID                uint       `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Matricule         string     `json:"matricule"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	ClassID           *uint      `json:"class_id,omitempty"`
	ClassName         string     `json:"class_name,omitempty"`
	Subdivision       string     `json:"subdivision,omitempty"`
	SubdivisionMethod string     `json:"subdivision_method,omitempty"`
	GuardianIDs       []uint     `json:"guardian_ids,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	guardians := make([]uint, 0, len(student.Guardians))
	for _, guardian := range student.Guardians {
		guardians = append(guardians, guardian.ID)
	}

	response := StudentResponse{
		ID:                student.ID,
		FirstName:         student.FirstName,
		LastName:          student.LastName,
		Matricule:         student.Matricule,
		BirthDate:         student.BirthDate,
		ClassID:           student.ClassID,
		Subdivision:       student.Subdivision,
		SubdivisionMethod: string(student.SubdivisionMethod),
		GuardianIDs:       guardians,
		CreatedAt:         student.CreatedAt,
	}
	if student.Class != nil {
		response.ClassName = student.Class.Name
	}
	return response
}

// NewStudentResponseSlice converts a slice of student models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
