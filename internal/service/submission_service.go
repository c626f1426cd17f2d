package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/dto"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrDeadlinePassed indicates the assignment deadline is over.
var ErrDeadlinePassed = errors.New("assignment is past deadline")

// ErrAlreadySubmitted indicates the student already has a submission for the assignment.
var ErrAlreadySubmitted = errors.New("assignment already submitted")

// ErrScoreOutOfRange indicates a manual score outside [0, max_score].
var ErrScoreOutOfRange = errors.New("score exceeds assignment maximum")

// SubmissionService handles student submissions, background AI grading, and
// manual teacher evaluation.
type SubmissionService interface {
	Submit(ctx context.Context, studentID, assignmentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	List(ctx context.Context, filter repository.SubmissionFilter) ([]dto.SubmissionResponse, error)
	ListForTeacher(ctx context.Context, teacherID, assignmentID uint) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, assignmentID, studentID uint) (dto.SubmissionResponse, error)
	Evaluate(ctx context.Context, teacherID, submissionID uint, payload dto.EvaluationRequest) (dto.SubmissionResponse, error)
	GradeInBackground(ctx context.Context, submissionID uint)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	grading     GradingService
	rewards     RewardService
	tasks       TaskRunner
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, grading GradingService, rewards RewardService, tasks TaskRunner, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		grading:     grading,
		rewards:     rewards,
		tasks:       tasks,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit records a student's attempt. Preconditions are checked in order:
// assignment exists, deadline not passed, no prior submission for the pair.
func (s *submissionService) Submit(ctx context.Context, studentID, assignmentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if assignment.IsPastDeadline(s.now()) {
		return dto.SubmissionResponse{}, ErrDeadlinePassed
	}

	if _, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID); err == nil {
		return dto.SubmissionResponse{}, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID:   assignmentID,
		StudentID:      studentID,
		SubmissionText: s.sanitizer.Sanitize(payload.SubmissionText),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("assignment_id", assignmentID).
		Uint("student_id", studentID).
		Msg("submission created")

	if assignment.EnableAutoGrading {
		submissionID := submission.ID
		s.tasks.Schedule(func(taskCtx context.Context) {
			s.GradeInBackground(taskCtx, submissionID)
		})
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) List(ctx context.Context, filter repository.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListForTeacher(ctx context.Context, teacherID, assignmentID uint) ([]dto.SubmissionResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	if assignment.TeacherID != teacherID {
		return nil, ErrNotAssignmentOwner
	}

	return s.List(ctx, repository.SubmissionFilter{AssignmentID: &assignmentID})
}

func (s *submissionService) Get(ctx context.Context, assignmentID, studentID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Evaluate records a teacher's manual score and feedback, overriding any
// automated score, and recomputes the student's balance.
func (s *submissionService) Evaluate(ctx context.Context, teacherID, submissionID uint, payload dto.EvaluationRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if assignment.TeacherID != teacherID {
		return dto.SubmissionResponse{}, ErrNotAssignmentOwner
	}

	scoreChanged := false
	if payload.Score != nil {
		if *payload.Score > assignment.MaxScore {
			return dto.SubmissionResponse{}, ErrScoreOutOfRange
		}
		score := *payload.Score
		submission.Score = &score
		scoreChanged = true
	}

	if payload.Feedback != nil {
		submission.TeacherFeedback = s.sanitizer.Sanitize(*payload.Feedback)
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if scoreChanged {
		if _, err := s.rewards.Recalculate(ctx, submission.StudentID); err != nil {
			s.logger.Error().Err(err).Uint("student_id", submission.StudentID).Msg("reward recalculation failed after manual evaluation")
		}
	}

	s.logger.Info().Uint("submission_id", submissionID).Uint("teacher_id", teacherID).Msg("submission evaluated")

	return dto.NewSubmissionResponse(submission), nil
}

// GradeInBackground runs the automated grading pipeline for one submission:
// lookup, provider call, score persist, reward recompute. Failures leave the
// submission unscored for later manual evaluation.
func (s *submissionService) GradeInBackground(ctx context.Context, submissionID uint) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		s.logger.Error().Err(err).Uint("submission_id", submissionID).Msg("submission lookup failed, skipping grading")
		return
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		s.logger.Error().Err(err).Uint("assignment_id", submission.AssignmentID).Msg("assignment lookup failed, skipping grading")
		return
	}

	template := ""
	if assignment.HasTemplate() {
		template = *assignment.CorrectionTemplate
	}

	score, err := s.grading.GradeSubmission(ctx, assignment.Instructions, submission.SubmissionText, assignment.MaxScore, template)
	if err != nil {
		s.logger.Error().Err(err).
			Uint("submission_id", submissionID).
			Uint("assignment_id", assignment.ID).
			Msg("automated grading failed, submission left unscored")
		return
	}

	submission.Score = &score
	if err := s.submissions.Update(ctx, &submission); err != nil {
		s.logger.Error().Err(err).Uint("submission_id", submissionID).Msg("failed to persist score")
		return
	}

	// Score persist and balance write are two separate calls. A crash
	// between them leaves a stale balance that the next recalculation
	// repairs.
	if _, err := s.rewards.Recalculate(ctx, submission.StudentID); err != nil {
		s.logger.Error().Err(err).Uint("student_id", submission.StudentID).Msg("reward recalculation failed after automated grading")
		return
	}

	s.logger.Info().
		Uint("submission_id", submissionID).
		Uint("student_id", submission.StudentID).
		Int("score", score).
		Msg("submission graded")
}
