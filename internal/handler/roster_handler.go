package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/dto"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/middleware"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/service"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/utils"
)

// RosterHandler wires teacher-facing student roster HTTP routes.
type RosterHandler struct {
	service service.RosterService
	logger  zerolog.Logger
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(service service.RosterService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		service: service,
		logger:  logger.With().Str("component", "roster_handler").Logger(),
	}
}

// Register attaches roster endpoints to the router group.
func (h *RosterHandler) Register(router fiber.Router) {
	router.Get("/students", h.listStudents)
	router.Post("/students", h.addStudents)
	router.Delete("/students/:id", h.removeStudent)
}

func (h *RosterHandler) listStudents(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	students, err := h.service.ListStudents(c.Context(), teacherID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *RosterHandler) addStudents(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	var payload dto.RosterAddRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	added, err := h.service.AddStudents(c.Context(), teacherID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students enrolled", added)
}

func (h *RosterHandler) removeStudent(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.RemoveStudent(c.Context(), teacherID, studentID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "student removed", fiber.Map{"student_id": studentID})
}

func (h *RosterHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrStudentNotEnrolled):
		return utils.SendError(c, fiber.StatusBadRequest, "student not found in your class")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *RosterHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).
		Str("correlation_id", middleware.GetCorrelationID(c)).
		Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
