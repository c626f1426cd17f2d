package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/dto"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
)

// ErrStudentNotEnrolled indicates the student is not on the teacher's roster.
var ErrStudentNotEnrolled = errors.New("student not enrolled with this teacher")

// RosterService manages which students belong to a teacher's class.
type RosterService interface {
	ListStudents(ctx context.Context, teacherID uint) ([]dto.RosterStudentResponse, error)
	AddStudents(ctx context.Context, teacherID uint, payload dto.RosterAddRequest) ([]dto.RosterStudentResponse, error)
	RemoveStudent(ctx context.Context, teacherID, studentID uint) error
}

type rosterService struct {
	teachers  repository.TeacherRepository
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRosterService builds a new roster service.
func NewRosterService(teachers repository.TeacherRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		teachers:  teachers,
		students:  students,
		validator: validate,
		logger:    logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) ListStudents(ctx context.Context, teacherID uint) ([]dto.RosterStudentResponse, error) {
	students, err := s.teachers.ListStudents(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewRosterStudentResponseSlice(students), nil
}

// AddStudents enrolls the given students with the teacher. Unknown ids and
// ids already on the roster are skipped, so the call reports only the
// students actually added.
func (s *rosterService) AddStudents(ctx context.Context, teacherID uint, payload dto.RosterAddRequest) ([]dto.RosterStudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	added := make([]models.Student, 0, len(payload.StudentIDs))
	for _, studentID := range payload.StudentIDs {
		student, err := s.students.GetByID(ctx, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn().Uint("student_id", studentID).Msg("skipping unknown student")
				continue
			}
			return nil, err
		}

		enrolled, err := s.teachers.HasStudent(ctx, teacherID, studentID)
		if err != nil {
			return nil, err
		}
		if enrolled {
			continue
		}

		added = append(added, student)
	}

	if len(added) > 0 {
		if err := s.teachers.AddStudents(ctx, teacherID, added); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Uint("teacher_id", teacherID).Int("added", len(added)).Msg("students enrolled")

	return dto.NewRosterStudentResponseSlice(added), nil
}

func (s *rosterService) RemoveStudent(ctx context.Context, teacherID, studentID uint) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	enrolled, err := s.teachers.HasStudent(ctx, teacherID, studentID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrStudentNotEnrolled
	}

	if err := s.teachers.RemoveStudent(ctx, teacherID, studentID); err != nil {
		return err
	}

	s.logger.Info().Uint("teacher_id", teacherID).Uint("student_id", studentID).Msg("student removed from roster")

	return nil
}
