package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/dto"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
)

func TestFeatureFlagLifecycleOverHTTP(t *testing.T) {
	app, db := setupApp(t, nil, nil)

	teacher := models.Teacher{Name: "Ms Smith", Email: "smith@example.com"}
	require.NoError(t, db.Create(&teacher).Error)

	// Create a flag.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/teacher/features", dto.FeatureCreateRequest{
		Name:        "auto_grading",
		Description: "toggle background grading",
		Enabled:     false,
	}, teacher.ID, "teacher")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, body.Success)

	// Toggle it on.
	enabled := true
	resp, body = doJSON(t, app, http.MethodPatch, "/api/v1/teacher/features/auto_grading", dto.FeatureUpdateRequest{Enabled: &enabled}, teacher.ID, "teacher")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated dto.FeatureResponse
	require.NoError(t, json.Unmarshal(body.Data, &updated))
	require.True(t, updated.Enabled)

	// List reflects the stored state.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/teacher/features", nil, teacher.ID, "teacher")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var flags []dto.FeatureResponse
	require.NoError(t, json.Unmarshal(body.Data, &flags))
	require.Len(t, flags, 1)
	require.True(t, flags[0].Enabled)
}

func TestFeatureFlagUnknownNameReturns404(t *testing.T) {
	app, db := setupApp(t, nil, nil)

	teacher := models.Teacher{Name: "Ms Smith", Email: "smith@example.com"}
	require.NoError(t, db.Create(&teacher).Error)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/teacher/features/missing", nil, teacher.ID, "teacher")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.False(t, body.Success)
	require.Equal(t, "feature flag not found", body.Message)
}

func TestFeatureFlagRoutesRequireTeacherRole(t *testing.T) {
	app, db := setupApp(t, nil, nil)

	student := models.Student{Name: "Noah", Email: "noah@example.com"}
	require.NoError(t, db.Create(&student).Error)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/teacher/features", nil, student.ID, "student")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
