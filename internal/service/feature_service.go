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

// ErrFeatureNotFound indicates the requested feature flag does not exist.
var ErrFeatureNotFound = errors.New("feature flag not found")

// FeatureService manages the feature flag registry.
type FeatureService interface {
	List(ctx context.Context) ([]dto.FeatureResponse, error)
	Get(ctx context.Context, name string) (dto.FeatureResponse, error)
	Create(ctx context.Context, payload dto.FeatureCreateRequest) (dto.FeatureResponse, error)
	Update(ctx context.Context, name string, payload dto.FeatureUpdateRequest) (dto.FeatureResponse, error)
	IsEnabled(ctx context.Context, name string) (bool, error)
}

type featureService struct {
	repo      repository.FeatureRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewFeatureService builds a new feature flag service.
func NewFeatureService(repo repository.FeatureRepository, validate *validator.Validate, logger zerolog.Logger) FeatureService {
	return &featureService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "feature_service").Logger(),
	}
}

func (s *featureService) List(ctx context.Context) ([]dto.FeatureResponse, error) {
	features, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewFeatureResponseSlice(features), nil
}

func (s *featureService) Get(ctx context.Context, name string) (dto.FeatureResponse, error) {
	feature, err := s.getFeature(ctx, name)
	if err != nil {
		return dto.FeatureResponse{}, err
	}

	return dto.NewFeatureResponse(feature), nil
}

// Create registers a new flag. An existing flag with the same name gets its
// enabled state updated instead of causing a unique constraint failure.
func (s *featureService) Create(ctx context.Context, payload dto.FeatureCreateRequest) (dto.FeatureResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeatureResponse{}, err
	}

	existing, err := s.repo.GetByName(ctx, payload.Name)
	if err == nil {
		s.logger.Warn().Str("feature", payload.Name).Msg("feature flag already exists, updating enabled state")
		existing.Enabled = payload.Enabled
		if err := s.repo.Update(ctx, &existing); err != nil {
			return dto.FeatureResponse{}, err
		}
		return dto.NewFeatureResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.FeatureResponse{}, err
	}

	feature := models.Feature{
		Name:        payload.Name,
		Description: payload.Description,
		Enabled:     payload.Enabled,
	}

	if err := s.repo.Create(ctx, &feature); err != nil {
		return dto.FeatureResponse{}, err
	}

	s.logger.Info().Str("feature", feature.Name).Bool("enabled", feature.Enabled).Msg("feature flag created")

	return dto.NewFeatureResponse(feature), nil
}

func (s *featureService) Update(ctx context.Context, name string, payload dto.FeatureUpdateRequest) (dto.FeatureResponse, error) {
	feature, err := s.getFeature(ctx, name)
	if err != nil {
		return dto.FeatureResponse{}, err
	}

	if payload.Description != nil {
		feature.Description = *payload.Description
	}

	if payload.Enabled != nil {
		feature.Enabled = *payload.Enabled
	}

	if payload.Description == nil && payload.Enabled == nil {
		return dto.NewFeatureResponse(feature), nil
	}

	if err := s.repo.Update(ctx, &feature); err != nil {
		return dto.FeatureResponse{}, err
	}

	s.logger.Info().Str("feature", name).Bool("enabled", feature.Enabled).Msg("feature flag updated")

	return dto.NewFeatureResponse(feature), nil
}

// IsEnabled reports whether a flag exists and is switched on. Unknown flags
// default to disabled.
func (s *featureService) IsEnabled(ctx context.Context, name string) (bool, error) {
	feature, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return feature.Enabled, nil
}

func (s *featureService) getFeature(ctx context.Context, name string) (models.Feature, error) {
	feature, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Feature{}, ErrFeatureNotFound
		}
		return models.Feature{}, err
	}

	return feature, nil
}
