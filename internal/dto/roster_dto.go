package dto

import (
	"time"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

// RosterAddRequest carries the student ids to enroll with a teacher.
type RosterAddRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required,min=1,dive,gt=0"`
}

// RosterStudentResponse is the serialized representation of an enrolled student.
type RosterStudentResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	GoldCoins int       `json:"gold_coins"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRosterStudentResponse converts a model into a DTO.
func NewRosterStudentResponse(model models.Student) RosterStudentResponse {
	return RosterStudentResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		GoldCoins: model.GoldCoins,
		CreatedAt: model.CreatedAt,
	}
}

// NewRosterStudentResponseSlice converts a slice of models into DTOs.
func NewRosterStudentResponseSlice(students []models.Student) []RosterStudentResponse {
	responses := make([]RosterStudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewRosterStudentResponse(student))
	}

	return responses
}
