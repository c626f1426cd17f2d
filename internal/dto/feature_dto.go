package dto

import (
	"time"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

// FeatureCreateRequest describes the payload for creating a feature flag.
type FeatureCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// FeatureUpdateRequest describes the payload for updating a feature flag.
type FeatureUpdateRequest struct {
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

// FeatureResponse is the serialized representation of a feature flag.
type FeatureResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewFeatureResponse converts a model into a DTO.
func NewFeatureResponse(model models.Feature) FeatureResponse {
	return FeatureResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Enabled:     model.Enabled,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewFeatureResponseSlice converts a slice of models into DTOs.
func NewFeatureResponseSlice(features []models.Feature) []FeatureResponse {
	responses := make([]FeatureResponse, 0, len(features))
	for _, feature := range features {
		responses = append(responses, NewFeatureResponse(feature))
	}

	return responses
}
