package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
)

// promotionFixture wires two consecutive primary classes and one student
// with annual grades in two subjects.
type promotionFixture struct {
	students *stubStudentRepo
	classes  *stubClassRepo
	subjects *stubSubjectRepo
	grades   *stubGradeRepo
	svc      PromotionService

	currentClass uint
	nextClass    uint
	studentID    uint
	subjectA     uint
	subjectB     uint
	yearID       uint
}

func newPromotionFixture(t *testing.T, seed int64) *promotionFixture {
	t.Helper()
	ctx := context.Background()

	f := &promotionFixture{
		classes:  &stubClassRepo{},
		subjects: &stubSubjectRepo{},
		grades:   &stubGradeRepo{},
		yearID:   1,
	}
	f.students = &stubStudentRepo{classes: f.classes}
	f.svc = NewPromotionService(f.students, f.classes, f.subjects, f.grades, rand.New(rand.NewSource(seed)), testLogger())

	current := models.Class{
		Name: "CM1", Level: 4, Kind: models.ClassPrimary, PromotionThreshold: 10,
		Subdivisions: []models.Subdivision{{Name: "A"}, {Name: "B"}},
	}
	require.NoError(t, f.classes.Create(ctx, &current))
	f.currentClass = current.ID

	next := models.Class{
		Name: "CM2", Level: 5, Kind: models.ClassPrimary, PromotionThreshold: 10,
		Subdivisions: []models.Subdivision{{Name: "A"}, {Name: "B"}},
	}
	require.NoError(t, f.classes.Create(ctx, &next))
	f.nextClass = next.ID

	student := models.Student{
		FirstName: "Awa", LastName: "Diallo", Matricule: "S-0001",
		ClassID: &f.currentClass, Subdivision: "A",
	}
	require.NoError(t, f.students.Create(ctx, &student))
	f.studentID = student.ID

	subjectA := models.Subject{Name: "Mathematics", ClassID: &f.currentClass}
	require.NoError(t, f.subjects.Create(ctx, &subjectA))
	f.subjectA = subjectA.ID
	subjectB := models.Subject{Name: "French", ClassID: &f.currentClass}
	require.NoError(t, f.subjects.Create(ctx, &subjectB))
	f.subjectB = subjectB.ID

	return f
}

func (f *promotionFixture) setAnnuals(t *testing.T, gradeA, gradeB float64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.grades.UpsertAnnualGrade(ctx, &models.AnnualGrade{
		StudentID: f.studentID, SubjectID: f.subjectA, SchoolYearID: f.yearID, Final: gradeA,
	}))
	require.NoError(t, f.grades.UpsertAnnualGrade(ctx, &models.AnnualGrade{
		StudentID: f.studentID, SubjectID: f.subjectB, SchoolYearID: f.yearID, Final: gradeB,
	}))
}

func TestEvaluateEligible(t *testing.T) {
	f := newPromotionFixture(t, 1)
	f.setAnnuals(t, 13, 12)

	evaluation, err := f.svc.Evaluate(context.Background(), f.studentID, f.yearID)
	require.NoError(t, err)
	require.True(t, evaluation.Eligible)
	require.InDelta(t, 12.5, evaluation.Average, 1e-9)
	require.Equal(t, 2, evaluation.SubjectCount)
	require.Empty(t, evaluation.Reason)
}

func TestEvaluateBelowThreshold(t *testing.T) {
	f := newPromotionFixture(t, 1)
	f.setAnnuals(t, 8, 8)

	evaluation, err := f.svc.Evaluate(context.Background(), f.studentID, f.yearID)
	require.NoError(t, err)
	require.False(t, evaluation.Eligible)
	require.Equal(t, "insufficient average: 8.00/10", evaluation.Reason)
}

func TestEvaluateNoGrades(t *testing.T) {
	f := newPromotionFixture(t, 1)

	evaluation, err := f.svc.Evaluate(context.Background(), f.studentID, f.yearID)
	require.NoError(t, err)
	require.False(t, evaluation.Eligible)
	require.Equal(t, "no annual grades available", evaluation.Reason)
}

func TestEvaluateIsReadOnly(t *testing.T) {
	f := newPromotionFixture(t, 1)
	f.setAnnuals(t, 13, 12)

	_, err := f.svc.Evaluate(context.Background(), f.studentID, f.yearID)
	require.NoError(t, err)

	for _, grade := range f.grades.annualGrades {
		require.False(t, grade.AutoPromoted)
		require.Nil(t, grade.NextClassID)
	}
	student, err := f.students.GetByID(context.Background(), f.studentID)
	require.NoError(t, err)
	require.Equal(t, f.currentClass, *student.ClassID)
}

func TestPromoteStampsAnnualGrades(t *testing.T) {
	f := newPromotionFixture(t, 1)
	f.setAnnuals(t, 13, 12)

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	result, err := f.svc.Promote(context.Background(), actor, f.studentID, dto.PromoteStudentRequest{
		SchoolYearID: f.yearID, SubdivisionMethod: "manual",
	})
	require.NoError(t, err)
	require.True(t, result.Promoted)
	require.Equal(t, f.nextClass, result.NewClassID)
	require.Equal(t, "A", result.NewSubdivision)

	for _, grade := range f.grades.annualGrades {
		require.True(t, grade.AutoPromoted)
		require.Equal(t, f.nextClass, *grade.NextClassID)
		require.Equal(t, "A", grade.NextSubdivision)
	}

	// The student is not moved until the promotion is committed.
	student, err := f.students.GetByID(context.Background(), f.studentID)
	require.NoError(t, err)
	require.Equal(t, f.currentClass, *student.ClassID)
}

func TestPromoteAutoSubdivisionIsSeedDeterministic(t *testing.T) {
	first := newPromotionFixture(t, 7)
	first.setAnnuals(t, 13, 12)
	second := newPromotionFixture(t, 7)
	second.setAnnuals(t, 13, 12)

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	payload := dto.PromoteStudentRequest{SchoolYearID: 1, SubdivisionMethod: "auto"}

	resultA, err := first.svc.Promote(context.Background(), actor, first.studentID, payload)
	require.NoError(t, err)
	resultB, err := second.svc.Promote(context.Background(), actor, second.studentID, payload)
	require.NoError(t, err)
	require.Equal(t, resultA.NewSubdivision, resultB.NewSubdivision)
}

func TestPromoteNoSuccessorClass(t *testing.T) {
	f := newPromotionFixture(t, 1)
	f.setAnnuals(t, 13, 12)
	require.NoError(t, f.classes.Delete(context.Background(), f.nextClass))

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	result, err := f.svc.Promote(context.Background(), actor, f.studentID, dto.PromoteStudentRequest{SchoolYearID: f.yearID})
	require.NoError(t, err)
	require.False(t, result.Promoted)
	require.Equal(t, "no successor class", result.Reason)
}

func TestPromoteDeniedForTeacher(t *testing.T) {
	f := newPromotionFixture(t, 1)

	_, err := f.svc.Promote(context.Background(), Actor{ID: 2, Role: models.RoleTeacher}, f.studentID, dto.PromoteStudentRequest{SchoolYearID: f.yearID})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestPromoteCohortTalliesOutcomes(t *testing.T) {
	f := newPromotionFixture(t, 1)
	f.setAnnuals(t, 13, 12)

	ctx := context.Background()
	failing := models.Student{
		FirstName: "Malik", LastName: "Sow", Matricule: "S-0002",
		ClassID: &f.currentClass, Subdivision: "B",
	}
	require.NoError(t, f.students.Create(ctx, &failing))
	require.NoError(t, f.grades.UpsertAnnualGrade(ctx, &models.AnnualGrade{
		StudentID: failing.ID, SubjectID: f.subjectA, SchoolYearID: f.yearID, Final: 7,
	}))

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	response, err := f.svc.PromoteCohort(ctx, actor, dto.RunPromotionRequest{SchoolYearID: f.yearID})
	require.NoError(t, err)
	require.Equal(t, 1, response.Promoted)
	require.Equal(t, 1, response.NotPromoted)
	require.Zero(t, response.Failed)
	require.Len(t, response.Results, 2)
}

func TestCommitPromotionMovesStampedStudents(t *testing.T) {
	f := newPromotionFixture(t, 1)
	f.setAnnuals(t, 13, 12)
	ctx := context.Background()
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	_, err := f.svc.Promote(ctx, actor, f.studentID, dto.PromoteStudentRequest{SchoolYearID: f.yearID, SubdivisionMethod: "manual"})
	require.NoError(t, err)

	response, err := f.svc.CommitPromotion(ctx, actor, dto.CommitPromotionRequest{SchoolYearID: f.yearID})
	require.NoError(t, err)
	require.Equal(t, 1, response.Committed)

	student, err := f.students.GetByID(ctx, f.studentID)
	require.NoError(t, err)
	require.Equal(t, f.nextClass, *student.ClassID)
	require.Equal(t, "A", student.Subdivision)
}

func TestAssignSubdivisionsAuto(t *testing.T) {
	f := newPromotionFixture(t, 3)
	ctx := context.Background()

	extra := models.Student{FirstName: "Fatou", LastName: "Ba", Matricule: "S-0003", ClassID: &f.currentClass}
	require.NoError(t, f.students.Create(ctx, &extra))

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	results, err := f.svc.AssignSubdivisions(ctx, actor, dto.AssignSubdivisionsRequest{
		ClassID:    f.currentClass,
		Method:     "auto",
		StudentIDs: []uint{f.studentID, extra.ID},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		require.Contains(t, []string{"A", "B"}, result.Subdivision)
	}

	student, err := f.students.GetByID(ctx, f.studentID)
	require.NoError(t, err)
	require.Equal(t, models.SubdivisionAuto, student.SubdivisionMethod)
}

func TestAssignSubdivisionsManualRejectsUnknownName(t *testing.T) {
	f := newPromotionFixture(t, 1)

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	_, err := f.svc.AssignSubdivisions(context.Background(), actor, dto.AssignSubdivisionsRequest{
		ClassID: f.currentClass,
		Method:  "manual",
		Assignments: []dto.SubdivisionAssignment{
			{StudentID: f.studentID, Subdivision: "Z"},
		},
	})
	require.ErrorIs(t, err, ErrNoSubdivisions)
}
