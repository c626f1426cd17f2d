package dto

import (
	"time"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

// SubmissionCreateRequest describes the payload for a student submission.
type SubmissionCreateRequest struct {
	SubmissionText string `json:"submission_text" validate:"required,min=1"`
}

// EvaluationRequest carries a teacher's manual score and feedback for a submission.
type EvaluationRequest struct {
	Score    *int    `json:"score" validate:"omitempty,gte=0"`
	Feedback *string `json:"feedback" validate:"omitempty,min=1"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID              uint           `json:"id"`
	AssignmentID    uint           `json:"assignment_id"`
	StudentID       uint           `json:"student_id"`
	SubmissionText  string         `json:"submission_text"`
	Score           *int           `json:"score"`
	TeacherFeedback string         `json:"teacher_feedback"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Assignment      AssignmentLite `json:"assignment"`
	Student         StudentLite    `json:"student"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	MaxScore int       `json:"max_score"`
	Deadline time.Time `json:"deadline"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:              model.ID,
		AssignmentID:    model.AssignmentID,
		StudentID:       model.StudentID,
		SubmissionText:  model.SubmissionText,
		Score:           model.Score,
		TeacherFeedback: model.TeacherFeedback,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:       model.Assignment.ID,
			Title:    model.Assignment.Title,
			MaxScore: model.Assignment.MaxScore,
			Deadline: model.Assignment.Deadline,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
