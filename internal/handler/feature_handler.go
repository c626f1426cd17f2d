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

// FeatureHandler wires teacher-facing feature flag HTTP routes.
type FeatureHandler struct {
	service service.FeatureService
	logger  zerolog.Logger
}

// NewFeatureHandler constructs the handler.
func NewFeatureHandler(service service.FeatureService, logger zerolog.Logger) *FeatureHandler {
	return &FeatureHandler{
		service: service,
		logger:  logger.With().Str("component", "feature_handler").Logger(),
	}
}

// Register attaches feature flag endpoints to the router group.
func (h *FeatureHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:name", h.get)
	router.Post("", h.create)
	router.Patch("/:name", h.update)
}

func (h *FeatureHandler) list(c *fiber.Ctx) error {
	features, err := h.service.List(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "feature flags retrieved", features)
}

func (h *FeatureHandler) get(c *fiber.Ctx) error {
	feature, err := h.service.Get(c.Context(), c.Params("name"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feature flag retrieved", feature)
}

func (h *FeatureHandler) create(c *fiber.Ctx) error {
	var payload dto.FeatureCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feature, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feature flag created", feature)
}

func (h *FeatureHandler) update(c *fiber.Ctx) error {
	var payload dto.FeatureUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feature, err := h.service.Update(c.Context(), c.Params("name"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feature flag updated", feature)
}

func (h *FeatureHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrFeatureNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "feature flag not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *FeatureHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).
		Str("correlation_id", middleware.GetCorrelationID(c)).
		Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
