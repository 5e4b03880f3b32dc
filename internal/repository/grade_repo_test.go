package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Class{},
		&models.Subdivision{},
		&models.TrimesterGrade{},
		&models.AnnualGrade{},
		&models.AuthToken{},
	))
	return db
}

func TestUpsertTrimesterGradeCreatesThenOverwritesFinal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	grade := models.TrimesterGrade{
		StudentID:   1,
		SubjectID:   2,
		TrimesterID: 3,
		Final:       12.0,
		Detail:      datatypes.NewJSONType(models.TrimesterDetail{CourseworkAvg: 14.0, ExamScore: 10.0}),
	}
	require.NoError(t, repo.UpsertTrimesterGrade(ctx, &grade))
	firstID := grade.ID
	require.NotZero(t, firstID)

	updated := models.TrimesterGrade{
		StudentID:   1,
		SubjectID:   2,
		TrimesterID: 3,
		Final:       13.5,
		Detail:      datatypes.NewJSONType(models.TrimesterDetail{CourseworkAvg: 15.0, ExamScore: 12.0}),
	}
	require.NoError(t, repo.UpsertTrimesterGrade(ctx, &updated))
	require.Equal(t, firstID, updated.ID, "upsert must overwrite the existing row, not create a second one")

	stored, err := repo.FindTrimesterGrade(ctx, 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 13.5, stored.Final)

	var count int64
	require.NoError(t, db.Model(&models.TrimesterGrade{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestUpsertAnnualGradePreservesPromotionFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	grade := models.AnnualGrade{StudentID: 1, SubjectID: 2, SchoolYearID: 4, Final: 11.0}
	require.NoError(t, repo.UpsertAnnualGrade(ctx, &grade))

	nextClass := uint(9)
	require.NoError(t, repo.StampPromotion(ctx, 1, 2, 4, nextClass, "B"))

	recomputed := models.AnnualGrade{StudentID: 1, SubjectID: 2, SchoolYearID: 4, Final: 11.5}
	require.NoError(t, repo.UpsertAnnualGrade(ctx, &recomputed))

	stored, err := repo.FindAnnualGrade(ctx, 1, 2, 4)
	require.NoError(t, err)
	require.Equal(t, 11.5, stored.Final)
	require.True(t, stored.AutoPromoted)
	require.NotNil(t, stored.NextClassID)
	require.Equal(t, nextClass, *stored.NextClassID)
	require.Equal(t, "B", stored.NextSubdivision)
}

func TestStudentCreateRejectsDuplicateMatricule(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	first := models.Student{FirstName: "Awa", LastName: "Diallo", Matricule: "MAT-001"}
	require.NoError(t, repo.Create(ctx, &first))

	duplicate := models.Student{FirstName: "Binta", LastName: "Sow", Matricule: "MAT-001"}
	err := repo.Create(ctx, &duplicate)
	require.ErrorIs(t, err, ErrDuplicateKey)

	var count int64
	require.NoError(t, db.Model(&models.Student{}).Count(&count).Error)
	require.Equal(t, int64(1), count, "failed create must not leave a record behind")
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := models.User{FirstName: "Ada", LastName: "Eze", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleParent}
	require.NoError(t, repo.Create(ctx, &first))

	duplicate := models.User{FirstName: "Ada", LastName: "Other", Email: "ADA@example.com", PasswordHash: "x", Role: models.RoleTeacher}
	require.ErrorIs(t, repo.Create(ctx, &duplicate), ErrDuplicateKey)
}

func TestTokenCreateRejectsDuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.AuthToken{ID: "tok-1", UserID: 1}))
	require.ErrorIs(t, repo.Create(ctx, &models.AuthToken{ID: "tok-1", UserID: 2}), ErrDuplicateKey)
}
