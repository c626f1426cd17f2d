package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

func TestFeatureRepositoryCreateAndGetByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeatureRepository(db)

	feature := models.Feature{Name: "auto_grading", Description: "toggle background grading", Enabled: true}
	require.NoError(t, repo.Create(context.Background(), &feature))
	require.NotZero(t, feature.ID)

	found, err := repo.GetByName(context.Background(), "auto_grading")
	require.NoError(t, err)
	require.True(t, found.Enabled)

	_, err = repo.GetByName(context.Background(), "missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFeatureRepositoryRejectsDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeatureRepository(db)

	require.NoError(t, repo.Create(context.Background(), &models.Feature{Name: "auto_grading"}))
	require.Error(t, repo.Create(context.Background(), &models.Feature{Name: "auto_grading"}))
}

func TestFeatureRepositoryListOrdersByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeatureRepository(db)

	require.NoError(t, repo.Create(context.Background(), &models.Feature{Name: "overview_cache"}))
	require.NoError(t, repo.Create(context.Background(), &models.Feature{Name: "auto_grading"}))

	features, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 2)
	require.Equal(t, "auto_grading", features[0].Name)
	require.Equal(t, "overview_cache", features[1].Name)
}

func TestFeatureRepositoryUpdateTogglesEnabled(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeatureRepository(db)

	feature := models.Feature{Name: "auto_grading", Enabled: false}
	require.NoError(t, repo.Create(context.Background(), &feature))

	feature.Enabled = true
	require.NoError(t, repo.Update(context.Background(), &feature))

	found, err := repo.GetByName(context.Background(), "auto_grading")
	require.NoError(t, err)
	require.True(t, found.Enabled)
}
