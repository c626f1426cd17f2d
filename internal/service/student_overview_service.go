package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/dto"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
)

// ErrStudentNotFound indicates the student record does not exist.
var ErrStudentNotFound = errors.New("student not found")

// StudentOverviewService produces the aggregated per-student dashboard.
type StudentOverviewService interface {
	GetOverview(ctx context.Context, studentID uint) (dto.StudentOverviewResponse, error)
	GetGoldCoins(ctx context.Context, studentID uint) (dto.GoldCoinsResponse, error)
}

type studentOverviewService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	students    repository.StudentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentOverviewService builds the overview aggregator.
func NewStudentOverviewService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, students repository.StudentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StudentOverviewService {
	return &studentOverviewService{
		assignments: assignments,
		submissions: submissions,
		students:    students,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "student_overview_service").Logger(),
		now:         time.Now,
	}
}

func (s *studentOverviewService) GetOverview(ctx context.Context, studentID uint) (dto.StudentOverviewResponse, error) {
	cacheKey := fmt.Sprintf("overview:student:%d", studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentOverviewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("overview cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read overview cache")
		}
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentOverviewResponse{}, ErrStudentNotFound
		}
		return dto.StudentOverviewResponse{}, err
	}

	assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{})
	if err != nil {
		return dto.StudentOverviewResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentOverviewResponse{}, err
	}

	response := s.buildOverview(student, assignments, submissions)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store overview cache")
			}
		}
	}

	return response, nil
}

func (s *studentOverviewService) GetGoldCoins(ctx context.Context, studentID uint) (dto.GoldCoinsResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GoldCoinsResponse{}, ErrStudentNotFound
		}
		return dto.GoldCoinsResponse{}, err
	}

	return dto.GoldCoinsResponse{StudentID: student.ID, GoldCoins: student.GoldCoins}, nil
}

func (s *studentOverviewService) buildOverview(student models.Student, assignments []models.Assignment, submissions []models.Submission) dto.StudentOverviewResponse {
	now := s.now()
	submissionByAssignment := map[uint]models.Submission{}
	for _, submission := range submissions {
		submissionByAssignment[submission.AssignmentID] = submission
	}

	summary := dto.OverviewSummary{GoldCoins: student.GoldCoins}
	progress := make([]dto.AssignmentProgress, 0, len(assignments))

	for _, assignment := range assignments {
		summary.TotalAssignments++
		submission, submitted := submissionByAssignment[assignment.ID]
		overdue := assignment.IsPastDeadline(now)

		entry := dto.AssignmentProgress{
			AssignmentID: assignment.ID,
			Title:        assignment.Title,
			MaxScore:     assignment.MaxScore,
			Deadline:     assignment.Deadline,
			Status:       "pending",
		}

		switch {
		case submitted && submission.IsGraded():
			summary.Submitted++
			summary.Graded++
			entry.Status = "graded"
			entry.SubmissionID = &submission.ID
			entry.Score = submission.Score
			entry.Feedback = submission.TeacherFeedback
		case submitted:
			summary.Submitted++
			summary.Pending++
			entry.Status = "submitted"
			entry.SubmissionID = &submission.ID
			entry.Feedback = submission.TeacherFeedback
		default:
			summary.Pending++
			if overdue {
				summary.Overdue++
				entry.Overdue = true
			}
		}

		progress = append(progress, entry)
	}

	return dto.StudentOverviewResponse{
		Summary:     summary,
		Assignments: progress,
	}
}
