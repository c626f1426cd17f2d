package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

// TeacherRepository provides access to teacher records and their student roster.
type TeacherRepository interface {
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	ListStudents(ctx context.Context, teacherID uint) ([]models.Student, error)
	AddStudents(ctx context.Context, teacherID uint, students []models.Student) error
	HasStudent(ctx context.Context, teacherID, studentID uint) (bool, error)
	RemoveStudent(ctx context.Context, teacherID, studentID uint) error
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) ListStudents(ctx context.Context, teacherID uint) ([]models.Student, error) {
	teacher := models.Teacher{ID: teacherID}

	var students []models.Student
	err := r.db.WithContext(ctx).
		Model(&teacher).
		Order("students.id asc").
		Association("Students").
		Find(&students)
	if err != nil {
		return nil, err
	}

	return students, nil
}

func (r *teacherRepository) AddStudents(ctx context.Context, teacherID uint, students []models.Student) error {
	teacher := models.Teacher{ID: teacherID}
	return r.db.WithContext(ctx).Model(&teacher).Association("Students").Append(students)
}

func (r *teacherRepository) HasStudent(ctx context.Context, teacherID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("teacher_students").
		Where("teacher_id = ? AND student_id = ?", teacherID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *teacherRepository) RemoveStudent(ctx context.Context, teacherID, studentID uint) error {
	teacher := models.Teacher{ID: teacherID}
	return r.db.WithContext(ctx).Model(&teacher).Association("Students").Delete(&models.Student{ID: studentID})
}
