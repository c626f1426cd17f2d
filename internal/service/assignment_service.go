package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/dto"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
)

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrAssignmentLocked indicates the assignment has submissions and can no longer be modified.
var ErrAssignmentLocked = errors.New("assignment has existing submissions")

// ErrNotAssignmentOwner indicates the acting teacher does not own the assignment.
var ErrNotAssignmentOwner = errors.New("assignment belongs to another teacher")

// ErrInstructionsRequired indicates template generation was requested without instructions.
var ErrInstructionsRequired = errors.New("assignment instructions are required")

// AssignmentService sequences the assignment lifecycle: authoring, template
// generation and approval, deadline management, and deletion.
type AssignmentService interface {
	List(ctx context.Context, filter repository.AssignmentFilter) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, teacherID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, teacherID, id uint) error
	ExtendDeadline(ctx context.Context, teacherID, id uint, payload dto.DeadlineExtendRequest) (dto.AssignmentResponse, error)
	GenerateTemplate(ctx context.Context, teacherID, id uint) (dto.TemplateResponse, error)
	ApproveTemplate(ctx context.Context, teacherID, id uint, payload dto.TemplateApproveRequest) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	grading   GradingService
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(repo repository.AssignmentRepository, grading GradingService, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		repo:      repo,
		grading:   grading,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "assignment_service").Logger(),
		now:       time.Now,
	}
}

func (s *assignmentService) List(ctx context.Context, filter repository.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	deadline, err := time.Parse(time.RFC3339, payload.Deadline)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("invalid deadline: %w", err)
	}

	if !deadline.After(s.now()) {
		return dto.AssignmentResponse{}, fmt.Errorf("deadline must be in the future")
	}

	assignment := models.Assignment{
		Title:             s.sanitizer.Sanitize(payload.Title),
		Instructions:      s.sanitizer.Sanitize(payload.Instructions),
		MaxScore:          payload.MaxScore,
		Deadline:          deadline,
		EnableAutoGrading: payload.EnableAutoGrading,
		TeacherID:         teacherID,
	}

	if err := s.repo.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("teacher_id", teacherID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, teacherID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.getOwnedUnlocked(ctx, teacherID, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = s.sanitizer.Sanitize(*payload.Title)
	}

	if payload.Instructions != nil {
		assignment.Instructions = s.sanitizer.Sanitize(*payload.Instructions)
		// A template drafted against the old instructions must never
		// silently survive an instruction edit.
		if assignment.CorrectionTemplate != nil {
			s.logger.Info().Uint("assignment_id", id).Msg("instructions changed, clearing correction template")
			assignment.CorrectionTemplate = nil
		}
	}

	if payload.MaxScore != nil {
		assignment.MaxScore = *payload.MaxScore
	}

	if payload.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *payload.Deadline)
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("invalid deadline: %w", err)
		}

		if !deadline.After(s.now()) {
			return dto.AssignmentResponse{}, fmt.Errorf("deadline must be in the future")
		}

		assignment.Deadline = deadline
	}

	if payload.EnableAutoGrading != nil {
		assignment.EnableAutoGrading = *payload.EnableAutoGrading
	}

	if err := s.repo.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, teacherID, id uint) error {
	if _, err := s.getOwnedUnlocked(ctx, teacherID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) ExtendDeadline(ctx context.Context, teacherID, id uint, payload dto.DeadlineExtendRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.getOwned(ctx, teacherID, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	deadline, err := time.Parse(time.RFC3339, payload.Deadline)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("invalid deadline: %w", err)
	}

	if !deadline.After(assignment.Deadline) {
		return dto.AssignmentResponse{}, fmt.Errorf("new deadline must be after the current deadline")
	}

	assignment.Deadline = deadline
	if err := s.repo.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", id).Time("deadline", deadline).Msg("assignment deadline extended")

	return dto.NewAssignmentResponse(assignment), nil
}

// GenerateTemplate drafts a correction template for teacher review. It is
// idempotent: an assignment that already carries a template gets it back
// unchanged without another provider call.
func (s *assignmentService) GenerateTemplate(ctx context.Context, teacherID, id uint) (dto.TemplateResponse, error) {
	assignment, err := s.getOwned(ctx, teacherID, id)
	if err != nil {
		return dto.TemplateResponse{}, err
	}

	if assignment.HasTemplate() {
		s.logger.Debug().Uint("assignment_id", id).Msg("correction template already exists, returning stored copy")
		return dto.TemplateResponse{
			AssignmentID:       id,
			CorrectionTemplate: *assignment.CorrectionTemplate,
			AlreadyApproved:    true,
		}, nil
	}

	if assignment.Instructions == "" {
		return dto.TemplateResponse{}, ErrInstructionsRequired
	}

	template, err := s.grading.GenerateCorrectionTemplate(ctx, assignment.Instructions, assignment.MaxScore)
	if err != nil {
		s.logger.Error().Err(err).Uint("assignment_id", id).Msg("template generation failed")
		return dto.TemplateResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("correction template generated for approval")

	return dto.TemplateResponse{
		AssignmentID:       id,
		CorrectionTemplate: template,
	}, nil
}

func (s *assignmentService) ApproveTemplate(ctx context.Context, teacherID, id uint, payload dto.TemplateApproveRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.getOwnedUnlocked(ctx, teacherID, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	template := payload.CorrectionTemplate
	assignment.CorrectionTemplate = &template

	if err := s.repo.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("correction template approved")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) getAssignment(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (s *assignmentService) getOwned(ctx context.Context, teacherID, id uint) (models.Assignment, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}

	if assignment.TeacherID != teacherID {
		return models.Assignment{}, ErrNotAssignmentOwner
	}

	return assignment, nil
}

// getOwnedUnlocked additionally rejects assignments that already have
// submissions. Locked state is derived from a live count, never cached.
func (s *assignmentService) getOwnedUnlocked(ctx context.Context, teacherID, id uint) (models.Assignment, error) {
	assignment, err := s.getOwned(ctx, teacherID, id)
	if err != nil {
		return models.Assignment{}, err
	}

	count, err := s.repo.CountSubmissions(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}

	if count > 0 {
		return models.Assignment{}, ErrAssignmentLocked
	}

	return assignment, nil
}
