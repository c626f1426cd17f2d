package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/dto"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/middleware"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/service"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/utils"
)

// StudentHandler wires student-facing HTTP routes.
type StudentHandler struct {
	assignments service.AssignmentService
	submissions service.SubmissionService
	overview    service.StudentOverviewService
	logger      zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(assignments service.AssignmentService, submissions service.SubmissionService, overview service.StudentOverviewService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		assignments: assignments,
		submissions: submissions,
		overview:    overview,
		logger:      logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/assignments", h.listOpenAssignments)
	router.Post("/assignments/:id/submit", h.submit)
	router.Get("/assignments/:id/submission", h.getSubmission)
	router.Get("/submissions", h.listSubmissions)
	router.Get("/gold-coins", h.goldCoins)
	router.Get("/overview", h.getOverview)
}

func (h *StudentHandler) listOpenAssignments(c *fiber.Ctx) error {
	now := time.Now()
	assignments, err := h.assignments.List(c.Context(), repository.AssignmentFilter{OpenAfter: &now})
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *StudentHandler) submit(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.submissions.Submit(c.Context(), studentID, assignmentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission received", submission)
}

func (h *StudentHandler) getSubmission(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.submissions.Get(c.Context(), assignmentID, studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *StudentHandler) listSubmissions(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	submissions, err := h.submissions.List(c.Context(), repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *StudentHandler) goldCoins(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	coins, err := h.overview.GetGoldCoins(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "gold coins retrieved", coins)
}

func (h *StudentHandler) getOverview(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	overview, err := h.overview.GetOverview(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "overview retrieved", overview)
}

func (h *StudentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrDeadlinePassed):
		return utils.SendError(c, fiber.StatusBadRequest, "assignment is past deadline")
	case errors.Is(err, service.ErrAlreadySubmitted):
		return utils.SendError(c, fiber.StatusBadRequest, "you have already submitted this assignment")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *StudentHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).
		Str("correlation_id", middleware.GetCorrelationID(c)).
		Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
