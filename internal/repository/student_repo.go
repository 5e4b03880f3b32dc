package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// StudentRepository handles persistence for students.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByMatricule(ctx context.Context, matricule string) (models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	ListByClass(ctx context.Context, classID uint) ([]models.Student, error)
	ListByClassSubdivision(ctx context.Context, classID uint, subdivision string) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a GORM-backed student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("matricule = ?", student.Matricule).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateKey
	}

	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).
		Preload("Class.Subdivisions").
		Preload("Guardians").
		First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) GetByMatricule(ctx context.Context, matricule string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).
		Preload("Class.Subdivisions").
		Where("matricule = ?", matricule).
		First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Preload("Class.Subdivisions").
		Order("matricule ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) ListByClass(ctx context.Context, classID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("matricule ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) ListByClassSubdivision(ctx context.Context, classID uint, subdivision string) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Preload("Guardians").
		Where("class_id = ? AND subdivision = ?", classID, subdivision).
		Order("matricule ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
