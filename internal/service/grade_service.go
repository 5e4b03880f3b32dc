package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/observability"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// GradeService computes period, trimester and annual grades and maintains
// the derived grade records.
type GradeService interface {
	CourseworkAverage(ctx context.Context, studentID, subjectID, periodID uint) (float64, error)
	ExamGrade(ctx context.Context, studentID, subjectID, trimesterID uint) (float64, error)
	ComputeTrimesterGrade(ctx context.Context, studentID, subjectID, trimesterID uint) (dto.TrimesterGradeResult, error)
	ComputeAnnualGrade(ctx context.Context, studentID, subjectID, schoolYearID uint) (dto.AnnualGradeResult, error)
	RecomputeTrimester(ctx context.Context, actor Actor, payload dto.RecomputeTrimesterRequest) (dto.RecomputeResponse, error)
	RecomputeAnnual(ctx context.Context, actor Actor, payload dto.RecomputeAnnualRequest) (dto.RecomputeResponse, error)
	ListTrimesterGrades(ctx context.Context, studentID, trimesterID uint) ([]dto.TrimesterGradeResponse, error)
	ListAnnualGrades(ctx context.Context, studentID, schoolYearID uint) ([]dto.AnnualGradeResponse, error)
}

type gradeService struct {
	grades   repository.GradeRepository
	scores   repository.ScoreRepository
	calendar repository.CalendarRepository
	students repository.StudentRepository
	subjects repository.SubjectRepository
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewGradeService constructs the grade engine.
func NewGradeService(
	grades repository.GradeRepository,
	scores repository.ScoreRepository,
	calendar repository.CalendarRepository,
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	logger zerolog.Logger,
) GradeService {
	return &gradeService{
		grades:   grades,
		scores:   scores,
		calendar: calendar,
		students: students,
		subjects: subjects,
		logger:   logger.With().Str("component", "grade_service").Logger(),
		tracer:   otel.Tracer("github.com/scolaris/scolaris-go-api/internal/service/grade"),
	}
}

// CourseworkAverage returns the arithmetic mean of the scored coursework
// entries for the exact (student, subject, period) triple. Pending entries
// are excluded from both sum and count. No scored entries yields 0.0, the
// same value as a scored zero; callers must not special-case the two.
func (s *gradeService) CourseworkAverage(ctx context.Context, studentID, subjectID, periodID uint) (float64, error) {
	entries, err := s.scores.ListCoursework(ctx, studentID, subjectID, periodID)
	if err != nil {
		return 0, err
	}

	var sum float64
	var count int
	for _, entry := range entries {
		if entry.Grade == nil {
			continue
		}
		sum += *entry.Grade
		count++
	}

	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// ExamGrade returns the value of the first exam entry for the triple, or
// 0.0 when none exists or the entry is pending.
func (s *gradeService) ExamGrade(ctx context.Context, studentID, subjectID, trimesterID uint) (float64, error) {
	exam, err := s.scores.FirstExam(ctx, studentID, subjectID, trimesterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if exam.Grade == nil {
		return 0, nil
	}
	return *exam.Grade, nil
}

// ComputeTrimesterGrade blends the coursework averages of the trimester's
// periods with the exam score. Periods whose coursework average is zero are
// excluded from the denominator rather than counted as zero.
func (s *gradeService) ComputeTrimesterGrade(ctx context.Context, studentID, subjectID, trimesterID uint) (dto.TrimesterGradeResult, error) {
	trimester, err := s.calendar.GetTrimester(ctx, trimesterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TrimesterGradeResult{}, ErrTrimesterNotFound
	}
	if err != nil {
		return dto.TrimesterGradeResult{}, err
	}

	var sum float64
	var included int
	for _, period := range trimester.Periods {
		avg, err := s.CourseworkAverage(ctx, studentID, subjectID, period.ID)
		if err != nil {
			return dto.TrimesterGradeResult{}, err
		}
		if avg > 0 {
			sum += avg
			included++
		}
	}

	var courseworkAvg float64
	if included > 0 {
		courseworkAvg = sum / float64(included)
	}

	examScore, err := s.ExamGrade(ctx, studentID, subjectID, trimesterID)
	if err != nil {
		return dto.TrimesterGradeResult{}, err
	}

	return dto.TrimesterGradeResult{
		Final:         courseworkAvg*CourseworkWeight + examScore*ExamWeight,
		CourseworkAvg: courseworkAvg,
		ExamScore:     examScore,
	}, nil
}

// ComputeAnnualGrade averages the persisted trimester finals of the school
// year. Only trimesters with a non-zero stored final participate; it does
// not recompute them.
func (s *gradeService) ComputeAnnualGrade(ctx context.Context, studentID, subjectID, schoolYearID uint) (dto.AnnualGradeResult, error) {
	year, err := s.calendar.GetSchoolYear(ctx, schoolYearID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AnnualGradeResult{}, ErrSchoolYearNotFound
	}
	if err != nil {
		return dto.AnnualGradeResult{}, err
	}

	var sum float64
	breakdown := make([]models.AnnualBreakdownEntry, 0, len(year.Trimesters))
	for _, trimester := range year.Trimesters {
		stored, err := s.grades.FindTrimesterGrade(ctx, studentID, subjectID, trimester.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return dto.AnnualGradeResult{}, err
		}
		if stored.Final == 0 {
			continue
		}
		sum += stored.Final
		breakdown = append(breakdown, models.AnnualBreakdownEntry{
			TrimesterID: trimester.ID,
			Grade:       stored.Final,
		})
	}

	var final float64
	if len(breakdown) > 0 {
		final = sum / float64(len(breakdown))
	}

	return dto.AnnualGradeResult{Final: final, Breakdown: breakdown}, nil
}

// RecomputeTrimester upserts a trimester grade for the full cross product
// of students and subjects. An unknown trimester aborts the whole batch;
// re-running with unchanged inputs is idempotent on the stored finals and
// returns the same count.
func (s *gradeService) RecomputeTrimester(ctx context.Context, actor Actor, payload dto.RecomputeTrimesterRequest) (dto.RecomputeResponse, error) {
	if err := authorize(actor, access.OpRecomputeGrades); err != nil {
		return dto.RecomputeResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "grades.recompute_trimester", trace.WithAttributes(
		attribute.Int64("trimester_id", int64(payload.TrimesterID)),
	))
	defer span.End()

	if _, err := s.calendar.GetTrimester(ctx, payload.TrimesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecomputeResponse{}, ErrTrimesterNotFound
		}
		return dto.RecomputeResponse{}, err
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return dto.RecomputeResponse{}, err
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return dto.RecomputeResponse{}, err
	}

	computed := 0
	for _, student := range students {
		for _, subject := range subjects {
			result, err := s.ComputeTrimesterGrade(ctx, student.ID, subject.ID, payload.TrimesterID)
			if err != nil {
				span.RecordError(err)
				return dto.RecomputeResponse{}, err
			}

			grade := models.TrimesterGrade{
				StudentID:   student.ID,
				SubjectID:   subject.ID,
				TrimesterID: payload.TrimesterID,
				Final:       result.Final,
				Detail: datatypes.NewJSONType(models.TrimesterDetail{
					CourseworkAvg: result.CourseworkAvg,
					ExamScore:     result.ExamScore,
				}),
			}
			if err := s.grades.UpsertTrimesterGrade(ctx, &grade); err != nil {
				span.RecordError(err)
				return dto.RecomputeResponse{}, err
			}
			computed++
		}
	}

	observability.GradesComputedTotal().WithLabelValues("trimester").Add(float64(computed))
	s.logger.Info().
		Uint("trimester_id", payload.TrimesterID).
		Int("computed", computed).
		Msg("trimester grades recomputed")

	return dto.RecomputeResponse{Computed: computed}, nil
}

// RecomputeAnnual upserts an annual grade for the full cross product of
// students and subjects from the persisted trimester grades of the year.
func (s *gradeService) RecomputeAnnual(ctx context.Context, actor Actor, payload dto.RecomputeAnnualRequest) (dto.RecomputeResponse, error) {
	if err := authorize(actor, access.OpRecomputeGrades); err != nil {
		return dto.RecomputeResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "grades.recompute_annual", trace.WithAttributes(
		attribute.Int64("school_year_id", int64(payload.SchoolYearID)),
	))
	defer span.End()

	if _, err := s.calendar.GetSchoolYear(ctx, payload.SchoolYearID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecomputeResponse{}, ErrSchoolYearNotFound
		}
		return dto.RecomputeResponse{}, err
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return dto.RecomputeResponse{}, err
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return dto.RecomputeResponse{}, err
	}

	computed := 0
	for _, student := range students {
		for _, subject := range subjects {
			result, err := s.ComputeAnnualGrade(ctx, student.ID, subject.ID, payload.SchoolYearID)
			if err != nil {
				span.RecordError(err)
				return dto.RecomputeResponse{}, err
			}

			grade := models.AnnualGrade{
				StudentID:    student.ID,
				SubjectID:    subject.ID,
				SchoolYearID: payload.SchoolYearID,
				Final:        result.Final,
				Breakdown:    datatypes.NewJSONType(result.Breakdown),
			}
			if err := s.grades.UpsertAnnualGrade(ctx, &grade); err != nil {
				span.RecordError(err)
				return dto.RecomputeResponse{}, err
			}
			computed++
		}
	}

	observability.GradesComputedTotal().WithLabelValues("annual").Add(float64(computed))
	s.logger.Info().
		Uint("school_year_id", payload.SchoolYearID).
		Int("computed", computed).
		Msg("annual grades recomputed")

	return dto.RecomputeResponse{Computed: computed}, nil
}

func (s *gradeService) ListTrimesterGrades(ctx context.Context, studentID, trimesterID uint) ([]dto.TrimesterGradeResponse, error) {
	grades, err := s.grades.ListTrimesterGrades(ctx, studentID, trimesterID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TrimesterGradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, dto.NewTrimesterGradeResponse(grade))
	}
	return responses, nil
}

func (s *gradeService) ListAnnualGrades(ctx context.Context, studentID, schoolYearID uint) ([]dto.AnnualGradeResponse, error) {
	grades, err := s.grades.ListAnnualGrades(ctx, studentID, schoolYearID)
	if err != nil {
		return nil, err
	}
	return dto.NewAnnualGradeResponseSlice(grades), nil
}
