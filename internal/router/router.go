package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/config"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/handler"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	StudentHandler    *handler.StudentHandler
	FeatureHandler    *handler.FeatureHandler
	RosterHandler     *handler.RosterHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Teacher surface (assignments, templates, submission review, flags, roster)
	teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole("teacher"))

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(teacher.Group("/assignments"))
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(teacher)
	}

	if deps.FeatureHandler != nil {
		deps.FeatureHandler.Register(teacher.Group("/features"))
	}

	if deps.RosterHandler != nil {
		deps.RosterHandler.Register(teacher)
	}

	// Student surface (open assignments, submitting, coins, overview)
	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole("student"))
		deps.StudentHandler.Register(student)
	}
}
