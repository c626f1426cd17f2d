package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/config"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/dto"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/handler"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/router"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/service"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/pkg/ai"
)

// scriptedProvider returns a fixed response for every completion.
type scriptedProvider struct {
	name     string
	response string
}

func (p *scriptedProvider) Name() string {
	return p.name
}

func (p *scriptedProvider) Complete(_ context.Context, _ string, _ ai.CompletionOptions) (string, error) {
	return p.response, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T, rich, terse ai.Provider) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Teacher{}, &models.Student{}, &models.Assignment{}, &models.Submission{}, &models.Feature{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	featureRepo := repository.NewFeatureRepository(db)

	gradingService := service.NewGradingService(rich, terse, logger)
	rewardService := service.NewRewardService(submissionRepo, studentRepo, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, gradingService, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, gradingService, rewardService, service.NewSynchronousTaskRunner(), validate, logger)
	overviewService := service.NewStudentOverviewService(assignmentRepo, submissionRepo, studentRepo, nil, time.Minute, logger)
	featureService := service.NewFeatureService(featureRepo, validate, logger)
	rosterService := service.NewRosterService(teacherRepo, studentRepo, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		StudentHandler:    handler.NewStudentHandler(assignmentService, submissionService, overviewService, logger),
		FeatureHandler:    handler.NewFeatureHandler(featureService, logger),
		RosterHandler:     handler.NewRosterHandler(rosterService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if raw := c.Get("X-Test-User"); raw != "" {
				parsed, err := strconv.ParseUint(raw, 10, 64)
				require.NoError(t, err)
				c.Locals("user_id", uint(parsed))
			}
			c.Locals("user_role", c.Get("X-Test-Role"))
			return c.Next()
		},
	})

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, userID uint, role string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))
	req.Header.Set("X-Test-Role", role)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestAssignmentLifecycleOverHTTP(t *testing.T) {
	rich := &scriptedProvider{name: "openai", response: "Award coins for correctness and clarity."}
	terse := &scriptedProvider{name: "anthropic", response: "7"}
	app, db := setupApp(t, rich, terse)

	teacher := models.Teacher{Name: "Ms Smith", Email: "smith@example.com"}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.Student{Name: "Noah", Email: "noah@example.com"}
	require.NoError(t, db.Create(&student).Error)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/teacher/assignments", dto.AssignmentCreateRequest{
		Title:             "Sorting homework",
		Instructions:      "Implement a sorting function in the language of your choice.",
		MaxScore:          10,
		Deadline:          time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		EnableAutoGrading: true,
	}, teacher.ID, "teacher")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, body.Success)

	var created dto.AssignmentResponse
	require.NoError(t, json.Unmarshal(body.Data, &created))

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teacher/assignments/%d/template", created.ID), nil, teacher.ID, "teacher")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var template dto.TemplateResponse
	require.NoError(t, json.Unmarshal(body.Data, &template))
	require.Equal(t, "Award coins for correctness and clarity.", template.CorrectionTemplate)
	require.False(t, template.AlreadyApproved)

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teacher/assignments/%d/template/approve", created.ID), dto.TemplateApproveRequest{
		CorrectionTemplate: template.CorrectionTemplate,
	}, teacher.ID, "teacher")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/student/assignments/%d/submit", created.ID), dto.SubmissionCreateRequest{
		SubmissionText: "def sort(xs): return sorted(xs)",
	}, student.ID, "student")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var submission dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(body.Data, &submission))

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/student/gold-coins", nil, student.ID, "student")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var coins dto.GoldCoinsResponse
	require.NoError(t, json.Unmarshal(body.Data, &coins))
	require.Equal(t, 7, coins.GoldCoins)

	// The assignment is now locked by the submission.
	title := "New title"
	resp, body = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/teacher/assignments/%d", created.ID), dto.AssignmentUpdateRequest{Title: &title}, teacher.ID, "teacher")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "cannot modify assignment with existing submissions", body.Message)

	// Extending the deadline remains possible.
	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teacher/assignments/%d/extend", created.ID), dto.DeadlineExtendRequest{
		Deadline: time.Now().Add(96 * time.Hour).Format(time.RFC3339),
	}, teacher.ID, "teacher")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTeacherRoutesRejectStudents(t *testing.T) {
	app, _ := setupApp(t, nil, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/teacher/assignments", nil, 1, "student")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.False(t, body.Success)
}

func TestGenerateTemplateUnavailableWithoutProviders(t *testing.T) {
	app, db := setupApp(t, nil, nil)

	teacher := models.Teacher{Name: "Ms Smith", Email: "smith@example.com"}
	require.NoError(t, db.Create(&teacher).Error)
	assignment := models.Assignment{
		Title:        "Essay",
		Instructions: "Write about distributed systems.",
		MaxScore:     10,
		Deadline:     time.Now().Add(24 * time.Hour),
		TeacherID:    teacher.ID,
	}
	require.NoError(t, db.Create(&assignment).Error)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teacher/assignments/%d/template", assignment.ID), nil, teacher.ID, "teacher")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "failed to generate correction template, please try again later", body.Message)
}

func TestSubmitPastDeadlineOverHTTP(t *testing.T) {
	app, db := setupApp(t, nil, nil)

	teacher := models.Teacher{Name: "Ms Smith", Email: "smith@example.com"}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.Student{Name: "Noah", Email: "noah@example.com"}
	require.NoError(t, db.Create(&student).Error)
	assignment := models.Assignment{
		Title:        "Essay",
		Instructions: "Write about distributed systems.",
		MaxScore:     10,
		Deadline:     time.Now().Add(-time.Hour),
		TeacherID:    teacher.ID,
	}
	require.NoError(t, db.Create(&assignment).Error)

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/student/assignments/%d/submit", assignment.ID), dto.SubmissionCreateRequest{
		SubmissionText: "too late",
	}, student.ID, "student")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "assignment is past deadline", body.Message)
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupApp(t, nil, nil)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	require.NoError(t, err)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
