package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

func seedRoster(t *testing.T) (*gorm.DB, models.Teacher, []models.Student) {
	t.Helper()

	db := setupTestDB(t)

	teacher := models.Teacher{Name: "Ms Smith", Email: "smith@example.com"}
	require.NoError(t, db.Create(&teacher).Error)

	students := []models.Student{
		{Name: "Noah", Email: "noah@example.com"},
		{Name: "Mira", Email: "mira@example.com"},
	}
	require.NoError(t, db.Create(&students).Error)

	return db, teacher, students
}

func TestTeacherRepositoryRosterLifecycle(t *testing.T) {
	db, teacher, students := seedRoster(t)
	repo := NewTeacherRepository(db)

	require.NoError(t, repo.AddStudents(context.Background(), teacher.ID, students))

	enrolled, err := repo.ListStudents(context.Background(), teacher.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 2)

	has, err := repo.HasStudent(context.Background(), teacher.ID, students[0].ID)
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, repo.RemoveStudent(context.Background(), teacher.ID, students[0].ID))

	has, err = repo.HasStudent(context.Background(), teacher.ID, students[0].ID)
	require.NoError(t, err)
	require.False(t, has)

	enrolled, err = repo.ListStudents(context.Background(), teacher.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	require.Equal(t, students[1].ID, enrolled[0].ID)
}

func TestTeacherRepositoryRemoveKeepsStudentRecord(t *testing.T) {
	db, teacher, students := seedRoster(t)
	repo := NewTeacherRepository(db)

	require.NoError(t, repo.AddStudents(context.Background(), teacher.ID, students[:1]))
	require.NoError(t, repo.RemoveStudent(context.Background(), teacher.ID, students[0].ID))

	var student models.Student
	require.NoError(t, db.First(&student, students[0].ID).Error)
	require.Equal(t, "Noah", student.Name)
}

func TestTeacherRepositoryGetByID(t *testing.T) {
	db, teacher, _ := seedRoster(t)
	repo := NewTeacherRepository(db)

	found, err := repo.GetByID(context.Background(), teacher.ID)
	require.NoError(t, err)
	require.Equal(t, teacher.Email, found.Email)

	_, err = repo.GetByID(context.Background(), teacher.ID+100)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
