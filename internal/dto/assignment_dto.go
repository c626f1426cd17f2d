package dto

import (
	"time"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Title             string `json:"title" validate:"required,min=3"`
	Instructions      string `json:"instructions" validate:"required,min=10"`
	MaxScore          int    `json:"max_score" validate:"required,gt=0"`
	Deadline          string `json:"deadline" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EnableAutoGrading bool   `json:"enable_auto_grading"`
}

// AssignmentUpdateRequest describes the payload for updating an assignment.
type AssignmentUpdateRequest struct {
	Title             *string `json:"title" validate:"omitempty,min=3"`
	Instructions      *string `json:"instructions" validate:"omitempty,min=10"`
	MaxScore          *int    `json:"max_score" validate:"omitempty,gt=0"`
	Deadline          *string `json:"deadline" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EnableAutoGrading *bool   `json:"enable_auto_grading"`
}

// DeadlineExtendRequest carries a new deadline for an assignment.
type DeadlineExtendRequest struct {
	Deadline string `json:"deadline" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// TemplateApproveRequest carries the teacher-approved correction template text.
type TemplateApproveRequest struct {
	CorrectionTemplate string `json:"correction_template" validate:"required,min=1"`
}

// TemplateResponse returns a generated or stored correction template for review.
type TemplateResponse struct {
	AssignmentID       uint   `json:"assignment_id"`
	CorrectionTemplate string `json:"correction_template"`
	AlreadyApproved    bool   `json:"already_approved"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	Instructions       string    `json:"instructions"`
	MaxScore           int       `json:"max_score"`
	CorrectionTemplate *string   `json:"correction_template"`
	Deadline           time.Time `json:"deadline"`
	EnableAutoGrading  bool      `json:"enable_auto_grading"`
	TeacherID          uint      `json:"teacher_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                 model.ID,
		Title:              model.Title,
		Instructions:       model.Instructions,
		MaxScore:           model.MaxScore,
		CorrectionTemplate: model.CorrectionTemplate,
		Deadline:           model.Deadline,
		EnableAutoGrading:  model.EnableAutoGrading,
		TeacherID:          model.TeacherID,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
