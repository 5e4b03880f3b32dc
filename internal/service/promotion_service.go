package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/observability"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// ErrNoSubdivisions signals an auto assignment request against a class
// that declares no subdivisions.
var ErrNoSubdivisions = errors.New("class has no subdivisions")

// PromotionService evaluates annual performance against class thresholds
// and carries out the promotion workflow.
type PromotionService interface {
	Evaluate(ctx context.Context, studentID, schoolYearID uint) (dto.PromotionEvaluation, error)
	Promote(ctx context.Context, actor Actor, studentID uint, payload dto.PromoteStudentRequest) (dto.PromotionResult, error)
	PromoteCohort(ctx context.Context, actor Actor, payload dto.RunPromotionRequest) (dto.CohortPromotionResponse, error)
	CommitPromotion(ctx context.Context, actor Actor, payload dto.CommitPromotionRequest) (dto.CommitPromotionResponse, error)
	AssignSubdivisions(ctx context.Context, actor Actor, payload dto.AssignSubdivisionsRequest) ([]dto.SubdivisionAssignmentResult, error)
}

type promotionService struct {
	students repository.StudentRepository
	classes  repository.ClassRepository
	subjects repository.SubjectRepository
	grades   repository.GradeRepository
	rng      *rand.Rand
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewPromotionService constructs the promotion engine. The random source
// drives auto subdivision picks and is injected so tests can seed it.
func NewPromotionService(
	students repository.StudentRepository,
	classes repository.ClassRepository,
	subjects repository.SubjectRepository,
	grades repository.GradeRepository,
	rng *rand.Rand,
	logger zerolog.Logger,
) PromotionService {
	return &promotionService{
		students: students,
		classes:  classes,
		subjects: subjects,
		grades:   grades,
		rng:      rng,
		logger:   logger.With().Str("component", "promotion_service").Logger(),
		tracer:   otel.Tracer("github.com/scolaris/scolaris-go-api/internal/service/promotion"),
	}
}

// Evaluate computes the unweighted mean of the student's annual finals over
// the subjects of their current class and compares it to the class
// threshold. Subject coefficients are deliberately not applied, matching
// the established grading policy. Ineligibility is a decision, not an
// error.
func (s *promotionService) Evaluate(ctx context.Context, studentID, schoolYearID uint) (dto.PromotionEvaluation, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.PromotionEvaluation{}, ErrStudentNotFound
	}
	if err != nil {
		return dto.PromotionEvaluation{}, err
	}

	if student.ClassID == nil || student.Class == nil {
		return dto.PromotionEvaluation{Eligible: false, Reason: "student has no class assigned"}, nil
	}

	threshold := student.Class.PromotionThreshold
	if threshold == 0 {
		threshold = DefaultPromotionThreshold
	}

	subjects, err := s.subjects.ListByClass(ctx, *student.ClassID)
	if err != nil {
		return dto.PromotionEvaluation{}, err
	}

	var sum float64
	var counted int
	for _, subject := range subjects {
		annual, err := s.grades.FindAnnualGrade(ctx, studentID, subject.ID, schoolYearID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return dto.PromotionEvaluation{}, err
		}
		sum += annual.Final
		counted++
	}

	if counted == 0 {
		return dto.PromotionEvaluation{
			Eligible:  false,
			Threshold: threshold,
			Reason:    "no annual grades available",
		}, nil
	}

	average := sum / float64(counted)
	evaluation := dto.PromotionEvaluation{
		Eligible:     average >= threshold,
		Average:      average,
		Threshold:    threshold,
		SubjectCount: counted,
	}
	if !evaluation.Eligible {
		evaluation.Reason = fmt.Sprintf("insufficient average: %.2f/%g", average, threshold)
	}
	return evaluation, nil
}

// Promote re-evaluates the student and, when eligible, records the
// promotion intent on every annual grade of the current class's subjects.
// Moving the student to the new class is the separate commit step.
func (s *promotionService) Promote(ctx context.Context, actor Actor, studentID uint, payload dto.PromoteStudentRequest) (dto.PromotionResult, error) {
	if err := authorize(actor, access.OpRunPromotion); err != nil {
		return dto.PromotionResult{}, err
	}
	return s.promote(ctx, studentID, payload.SchoolYearID, payload.SubdivisionMethod)
}

func (s *promotionService) promote(ctx context.Context, studentID, schoolYearID uint, method string) (dto.PromotionResult, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.promote", trace.WithAttributes(
		attribute.Int64("student_id", int64(studentID)),
		attribute.Int64("school_year_id", int64(schoolYearID)),
	))
	defer span.End()

	student, err := s.students.GetByID(ctx, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.PromotionResult{}, ErrStudentNotFound
	}
	if err != nil {
		return dto.PromotionResult{}, err
	}

	result := dto.PromotionResult{StudentID: studentID, StudentName: student.FullName()}

	evaluation, err := s.Evaluate(ctx, studentID, schoolYearID)
	if err != nil {
		return dto.PromotionResult{}, err
	}
	result.Average = evaluation.Average

	if !evaluation.Eligible {
		result.Reason = evaluation.Reason
		observability.PromotionsTotal().WithLabelValues("refused").Inc()
		return result, nil
	}

	successor, err := s.classes.FindSuccessor(ctx, student.Class.Level, student.Class.Kind)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		result.Reason = "no successor class"
		observability.PromotionsTotal().WithLabelValues("refused").Inc()
		return result, nil
	}
	if err != nil {
		return dto.PromotionResult{}, err
	}

	subdivision := s.pickSubdivision(successor, method)

	subjects, err := s.subjects.ListByClass(ctx, *student.ClassID)
	if err != nil {
		return dto.PromotionResult{}, err
	}
	for _, subject := range subjects {
		if err := s.grades.StampPromotion(ctx, studentID, subject.ID, schoolYearID, successor.ID, subdivision); err != nil {
			span.RecordError(err)
			return dto.PromotionResult{}, err
		}
	}

	result.Promoted = true
	result.NewClassID = successor.ID
	result.NewClassName = successor.Name
	result.NewSubdivision = subdivision

	observability.PromotionsTotal().WithLabelValues("promoted").Inc()
	s.logger.Info().
		Uint("student_id", studentID).
		Uint("new_class_id", successor.ID).
		Str("new_subdivision", subdivision).
		Msg("student promoted")

	return result, nil
}

// pickSubdivision selects the target section of the successor class: a
// uniform random pick for auto, the first declared section otherwise, and
// the fixed fallback label when the class declares none.
func (s *promotionService) pickSubdivision(class models.Class, method string) string {
	names := class.SubdivisionNames()
	if len(names) == 0 {
		return DefaultSubdivision
	}
	if method == string(models.SubdivisionAuto) {
		return names[s.rng.Intn(len(names))]
	}
	return names[0]
}

// PromoteCohort runs the promotion workflow over every student. Outcomes
// are independent: one student's failure is tallied and does not abort the
// rest.
func (s *promotionService) PromoteCohort(ctx context.Context, actor Actor, payload dto.RunPromotionRequest) (dto.CohortPromotionResponse, error) {
	if err := authorize(actor, access.OpRunPromotion); err != nil {
		return dto.CohortPromotionResponse{}, err
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return dto.CohortPromotionResponse{}, err
	}

	response := dto.CohortPromotionResponse{Results: make([]dto.PromotionResult, 0, len(students))}
	for _, student := range students {
		result, err := s.promote(ctx, student.ID, payload.SchoolYearID, payload.SubdivisionMethod)
		if err != nil {
			s.logger.Warn().Err(err).Uint("student_id", student.ID).Msg("promotion attempt failed")
			response.Failed++
			response.Results = append(response.Results, dto.PromotionResult{
				StudentID:   student.ID,
				StudentName: student.FullName(),
				Reason:      err.Error(),
			})
			continue
		}

		if result.Promoted {
			response.Promoted++
		} else {
			response.NotPromoted++
		}
		response.Results = append(response.Results, result)
	}

	return response, nil
}

// CommitPromotion moves students whose annual grades carry a recorded
// promotion outcome into their target class and subdivision.
func (s *promotionService) CommitPromotion(ctx context.Context, actor Actor, payload dto.CommitPromotionRequest) (dto.CommitPromotionResponse, error) {
	if err := authorize(actor, access.OpRunPromotion); err != nil {
		return dto.CommitPromotionResponse{}, err
	}

	targets := payload.StudentIDs
	if len(targets) == 0 {
		students, err := s.students.List(ctx)
		if err != nil {
			return dto.CommitPromotionResponse{}, err
		}
		for _, student := range students {
			targets = append(targets, student.ID)
		}
	}

	response := dto.CommitPromotionResponse{}
	for _, studentID := range targets {
		grades, err := s.grades.ListAnnualGrades(ctx, studentID, payload.SchoolYearID)
		if err != nil {
			return dto.CommitPromotionResponse{}, err
		}

		var outcome *models.AnnualGrade
		for i := range grades {
			if grades[i].AutoPromoted && grades[i].NextClassID != nil {
				outcome = &grades[i]
				break
			}
		}
		if outcome == nil {
			continue
		}

		student, err := s.students.GetByID(ctx, studentID)
		if err != nil {
			s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("commit skipped: student lookup failed")
			continue
		}

		student.ClassID = outcome.NextClassID
		student.Subdivision = outcome.NextSubdivision
		student.Class = nil
		student.Guardians = nil
		if err := s.students.Update(ctx, &student); err != nil {
			return dto.CommitPromotionResponse{}, err
		}

		response.Committed++
		response.Results = append(response.Results, dto.PromotionResult{
			StudentID:      studentID,
			StudentName:    student.FullName(),
			Promoted:       true,
			NewClassID:     *outcome.NextClassID,
			NewSubdivision: outcome.NextSubdivision,
		})
	}

	return response, nil
}

// AssignSubdivisions distributes students of one class over its declared
// subdivisions, randomly for auto or from the explicit assignment list for
// manual.
func (s *promotionService) AssignSubdivisions(ctx context.Context, actor Actor, payload dto.AssignSubdivisionsRequest) ([]dto.SubdivisionAssignmentResult, error) {
	if err := authorize(actor, access.OpManageStudents); err != nil {
		return nil, err
	}

	class, err := s.classes.GetByID(ctx, payload.ClassID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}

	if payload.Method == string(models.SubdivisionAuto) {
		names := class.SubdivisionNames()
		if len(names) == 0 {
			return nil, ErrNoSubdivisions
		}

		results := make([]dto.SubdivisionAssignmentResult, 0, len(payload.StudentIDs))
		for _, studentID := range payload.StudentIDs {
			chosen := names[s.rng.Intn(len(names))]
			result, err := s.placeStudent(ctx, studentID, chosen, models.SubdivisionAuto)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}
		return results, nil
	}

	results := make([]dto.SubdivisionAssignmentResult, 0, len(payload.Assignments))
	for _, assignment := range payload.Assignments {
		if !class.HasSubdivision(assignment.Subdivision) {
			return nil, fmt.Errorf("%w: %q is not a subdivision of class %q", ErrNoSubdivisions, assignment.Subdivision, class.Name)
		}
		result, err := s.placeStudent(ctx, assignment.StudentID, assignment.Subdivision, models.SubdivisionManual)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *promotionService) placeStudent(ctx context.Context, studentID uint, subdivision string, method models.SubdivisionMethod) (dto.SubdivisionAssignmentResult, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubdivisionAssignmentResult{}, ErrStudentNotFound
	}
	if err != nil {
		return dto.SubdivisionAssignmentResult{}, err
	}

	student.Subdivision = subdivision
	student.SubdivisionMethod = method
	student.Class = nil
	student.Guardians = nil
	if err := s.students.Update(ctx, &student); err != nil {
		return dto.SubdivisionAssignmentResult{}, err
	}

	return dto.SubdivisionAssignmentResult{
		StudentID:   studentID,
		StudentName: student.FullName(),
		Subdivision: subdivision,
	}, nil
}
