package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

// FeatureRepository provides access to feature flag records.
type FeatureRepository interface {
	List(ctx context.Context) ([]models.Feature, error)
	GetByName(ctx context.Context, name string) (models.Feature, error)
	Create(ctx context.Context, feature *models.Feature) error
	Update(ctx context.Context, feature *models.Feature) error
}

type featureRepository struct {
	db *gorm.DB
}

// NewFeatureRepository constructs a feature flag repository.
func NewFeatureRepository(db *gorm.DB) FeatureRepository {
	return &featureRepository{db: db}
}

func (r *featureRepository) List(ctx context.Context) ([]models.Feature, error) {
	var features []models.Feature
	if err := r.db.WithContext(ctx).Order("name asc").Find(&features).Error; err != nil {
		return nil, err
	}

	return features, nil
}

func (r *featureRepository) GetByName(ctx context.Context, name string) (models.Feature, error) {
	var feature models.Feature
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&feature).Error; err != nil {
		return models.Feature{}, err
	}

	return feature, nil
}

func (r *featureRepository) Create(ctx context.Context, feature *models.Feature) error {
	return r.db.WithContext(ctx).Create(feature).Error
}

func (r *featureRepository) Update(ctx context.Context, feature *models.Feature) error {
	return r.db.WithContext(ctx).Save(feature).Error
}
