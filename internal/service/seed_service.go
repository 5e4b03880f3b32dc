package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
var ErrSeedDisabled = errors.New("seeding is disabled")

// SeedService populates a demo school for development environments: two
// classes with subdivisions, subjects, a full grading calendar, students
// and randomized scores.
type SeedService interface {
	SeedDemo(ctx context.Context, actor Actor) (dto.SeedSummary, error)
}

type seedService struct {
	classes  repository.ClassRepository
	subjects repository.SubjectRepository
	calendar repository.CalendarRepository
	students repository.StudentRepository
	scores   repository.ScoreRepository
	enabled  bool
	rng      *rand.Rand
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service. The service refuses to run
// unless explicitly enabled.
func NewSeedService(
	classes repository.ClassRepository,
	subjects repository.SubjectRepository,
	calendar repository.CalendarRepository,
	students repository.StudentRepository,
	scores repository.ScoreRepository,
	enabled bool,
	rng *rand.Rand,
	logger zerolog.Logger,
) SeedService {
	return &seedService{
		classes:  classes,
		subjects: subjects,
		calendar: calendar,
		students: students,
		scores:   scores,
		enabled:  enabled,
		rng:      rng,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

var demoSubjectNames = []string{"Mathematics", "French", "History", "Science"}

func (s *seedService) SeedDemo(ctx context.Context, actor Actor) (dto.SeedSummary, error) {
	if !s.enabled {
		return dto.SeedSummary{}, ErrSeedDisabled
	}
	if err := authorize(actor, access.OpSeedData); err != nil {
		return dto.SeedSummary{}, err
	}

	summary := dto.SeedSummary{}

	classes := []models.Class{
		{
			Name: "CM1", Level: 4, Kind: models.ClassPrimary,
			PromotionThreshold: DefaultPromotionThreshold,
			Subdivisions:       []models.Subdivision{{Name: "A"}, {Name: "B"}},
		},
		{
			Name: "CM2", Level: 5, Kind: models.ClassPrimary,
			PromotionThreshold: DefaultPromotionThreshold,
			Subdivisions:       []models.Subdivision{{Name: "A"}, {Name: "B"}},
		},
	}
	for i := range classes {
		if err := s.classes.Create(ctx, &classes[i]); err != nil {
			return summary, err
		}
		summary.Classes++
	}

	var subjects []models.Subject
	for _, name := range demoSubjectNames {
		subject := models.Subject{Name: name, Coefficient: 1, ClassID: &classes[0].ID}
		if err := s.subjects.Create(ctx, &subject); err != nil {
			return summary, err
		}
		subjects = append(subjects, subject)
		summary.Subjects++
	}

	year, trimesters, periods, err := s.seedCalendar(ctx)
	if err != nil {
		return summary, err
	}
	summary.SchoolYears = 1
	summary.Trimesters = len(trimesters)
	summary.Periods = len(periods)
	_ = year

	var students []models.Student
	for i := 0; i < 8; i++ {
		student := models.Student{
			FirstName:   fmt.Sprintf("Demo%d", i+1),
			LastName:    "Student",
			Matricule:   fmt.Sprintf("DEMO-%04d", i+1),
			ClassID:     &classes[0].ID,
			Subdivision: classes[0].Subdivisions[i%2].Name,
		}
		if err := s.students.Create(ctx, &student); err != nil {
			return summary, err
		}
		students = append(students, student)
		summary.Students++
	}

	for _, student := range students {
		for _, subject := range subjects {
			for _, period := range periods {
				grade := float64(s.rng.Intn(21))
				score := models.CourseworkScore{
					StudentID: student.ID,
					SubjectID: subject.ID,
					PeriodID:  period.ID,
					Grade:     &grade,
					ScoredAt:  timePtr(period.StartsAt.AddDate(0, 0, 7)),
				}
				if err := s.scores.CreateCoursework(ctx, &score); err != nil {
					return summary, err
				}
				summary.Scores++
			}
			for _, trimester := range trimesters {
				grade := float64(s.rng.Intn(21))
				score := models.ExamScore{
					StudentID:   student.ID,
					SubjectID:   subject.ID,
					TrimesterID: trimester.ID,
					Grade:       &grade,
					ScoredAt:    timePtr(trimester.EndsAt.AddDate(0, 0, -3)),
				}
				if err := s.scores.CreateExam(ctx, &score); err != nil {
					return summary, err
				}
				summary.Scores++
			}
		}
	}

	s.logger.Info().
		Int("classes", summary.Classes).
		Int("students", summary.Students).
		Int("scores", summary.Scores).
		Msg("demo school seeded")

	return summary, nil
}

func (s *seedService) seedCalendar(ctx context.Context) (models.SchoolYear, []models.Trimester, []models.Period, error) {
	start := time.Date(time.Now().Year(), time.September, 1, 0, 0, 0, 0, time.UTC)
	year := models.SchoolYear{
		Name:     fmt.Sprintf("%d-%d", start.Year(), start.Year()+1),
		StartsAt: start,
		EndsAt:   start.AddDate(0, 10, 0),
	}
	if err := s.calendar.CreateSchoolYear(ctx, &year); err != nil {
		return models.SchoolYear{}, nil, nil, err
	}

	var trimesters []models.Trimester
	var periods []models.Period
	for i := 0; i < 3; i++ {
		trimester := models.Trimester{
			Name:         fmt.Sprintf("Trimester %d", i+1),
			StartsAt:     start.AddDate(0, i*3, 0),
			EndsAt:       start.AddDate(0, i*3+3, -1),
			Position:     i,
			SchoolYearID: year.ID,
		}
		if err := s.calendar.CreateTrimester(ctx, &trimester); err != nil {
			return year, trimesters, periods, err
		}
		trimesters = append(trimesters, trimester)

		for j := 0; j < 2; j++ {
			period := models.Period{
				Name:        fmt.Sprintf("Period %d.%d", i+1, j+1),
				StartsAt:    trimester.StartsAt.AddDate(0, j, 0),
				EndsAt:      trimester.StartsAt.AddDate(0, j+1, -1),
				Position:    j,
				TrimesterID: trimester.ID,
			}
			if err := s.calendar.CreatePeriod(ctx, &period); err != nil {
				return year, trimesters, periods, err
			}
			periods = append(periods, period)
		}
	}

	return year, trimesters, periods, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
