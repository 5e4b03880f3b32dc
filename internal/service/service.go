// Package service implements the use cases of the school-management
// backend: identity, academic structure, the grade and promotion engines,
// messaging and notifications. Services authorize the acting user through
// the access package before any mutating read or write.
package service

import (
	"errors"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/models"
)

// Grading policy constants. These are fixed policy, not configuration: the
// trimester blend is an even coursework/exam split and the promotion cutoff
// falls back to 10 on the 0-20 scale when a class does not set its own.
const (
	CourseworkWeight          = 0.5
	ExamWeight                = 0.5
	DefaultPromotionThreshold = 10.0
	DefaultSubdivision        = "A"
)

// Sentinel errors shared across services. Handlers map them to HTTP
// statuses with errors.Is.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrClassNotFound      = errors.New("class not found")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSchoolYearNotFound = errors.New("school year not found")
	ErrTrimesterNotFound  = errors.New("trimester not found")
	ErrPeriodNotFound     = errors.New("period not found")
	ErrRecordNotFound     = errors.New("record not found")
)

// Actor identifies the authenticated user on whose behalf a use case runs.
type Actor struct {
	ID   uint
	Role models.Role
}

// authorize returns ErrPermissionDenied unless the actor's role passes the
// gate for the operation. It runs before any read or write.
func authorize(actor Actor, op access.Operation) error {
	if !access.Allowed(actor.Role, op) {
		return ErrPermissionDenied
	}
	return nil
}
