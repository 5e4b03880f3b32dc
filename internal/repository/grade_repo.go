package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// GradeRepository handles persistence for derived trimester and annual
// grade records. Upserts run inside a transaction so two concurrent
// recomputations of the same (student, subject) pair cannot interleave
// stale reads.
type GradeRepository interface {
	FindTrimesterGrade(ctx context.Context, studentID, subjectID, trimesterID uint) (models.TrimesterGrade, error)
	UpsertTrimesterGrade(ctx context.Context, grade *models.TrimesterGrade) error
	ListTrimesterGrades(ctx context.Context, studentID, trimesterID uint) ([]models.TrimesterGrade, error)

	FindAnnualGrade(ctx context.Context, studentID, subjectID, schoolYearID uint) (models.AnnualGrade, error)
	UpsertAnnualGrade(ctx context.Context, grade *models.AnnualGrade) error
	ListAnnualGrades(ctx context.Context, studentID, schoolYearID uint) ([]models.AnnualGrade, error)
	StampPromotion(ctx context.Context, studentID, subjectID, schoolYearID uint, nextClassID uint, nextSubdivision string) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository constructs a GORM-backed grade repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) FindTrimesterGrade(ctx context.Context, studentID, subjectID, trimesterID uint) (models.TrimesterGrade, error) {
	var grade models.TrimesterGrade
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ? AND trimester_id = ?", studentID, subjectID, trimesterID).
		First(&grade).Error; err != nil {
		return models.TrimesterGrade{}, err
	}
	return grade, nil
}

// UpsertTrimesterGrade creates the record for the triple or overwrites the
// final value and detail of the existing one. Re-running with unchanged
// inputs leaves the stored final unchanged.
func (r *gradeRepository) UpsertTrimesterGrade(ctx context.Context, grade *models.TrimesterGrade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.TrimesterGrade
		err := tx.Where("student_id = ? AND subject_id = ? AND trimester_id = ?",
			grade.StudentID, grade.SubjectID, grade.TrimesterID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(grade).Error
		}
		if err != nil {
			return err
		}

		existing.Final = grade.Final
		existing.Detail = grade.Detail
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*grade = existing
		return nil
	})
}

func (r *gradeRepository) ListTrimesterGrades(ctx context.Context, studentID, trimesterID uint) ([]models.TrimesterGrade, error) {
	query := r.db.WithContext(ctx).Order("subject_id ASC")
	if studentID != 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if trimesterID != 0 {
		query = query.Where("trimester_id = ?", trimesterID)
	}

	var grades []models.TrimesterGrade
	if err := query.Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *gradeRepository) FindAnnualGrade(ctx context.Context, studentID, subjectID, schoolYearID uint) (models.AnnualGrade, error) {
	var grade models.AnnualGrade
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ? AND school_year_id = ?", studentID, subjectID, schoolYearID).
		First(&grade).Error; err != nil {
		return models.AnnualGrade{}, err
	}
	return grade, nil
}

// UpsertAnnualGrade creates or overwrites the annual record for the triple.
// Promotion-outcome fields of an existing record are preserved.
func (r *gradeRepository) UpsertAnnualGrade(ctx context.Context, grade *models.AnnualGrade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AnnualGrade
		err := tx.Where("student_id = ? AND subject_id = ? AND school_year_id = ?",
			grade.StudentID, grade.SubjectID, grade.SchoolYearID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(grade).Error
		}
		if err != nil {
			return err
		}

		existing.Final = grade.Final
		existing.Breakdown = grade.Breakdown
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*grade = existing
		return nil
	})
}

func (r *gradeRepository) ListAnnualGrades(ctx context.Context, studentID, schoolYearID uint) ([]models.AnnualGrade, error) {
	query := r.db.WithContext(ctx).Order("subject_id ASC")
	if studentID != 0 {
		query = query.Where("student_id = ?", studentID)
	}
	if schoolYearID != 0 {
		query = query.Where("school_year_id = ?", schoolYearID)
	}

	var grades []models.AnnualGrade
	if err := query.Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

// StampPromotion records the promotion decision on the annual grade row.
// Missing rows are skipped silently: a subject without an annual grade did
// not participate in the decision.
func (r *gradeRepository) StampPromotion(ctx context.Context, studentID, subjectID, schoolYearID uint, nextClassID uint, nextSubdivision string) error {
	return r.db.WithContext(ctx).Model(&models.AnnualGrade{}).
		Where("student_id = ? AND subject_id = ? AND school_year_id = ?", studentID, subjectID, schoolYearID).
		Updates(map[string]interface{}{
			"auto_promoted":    true,
			"next_class_id":    nextClassID,
			"next_subdivision": nextSubdivision,
		}).Error
}
