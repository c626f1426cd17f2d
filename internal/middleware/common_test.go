package middleware_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/middleware"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/utils"
)

func newEchoApp() *fiber.App {
	app := fiber.New()
	middleware.Register(app)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "pong", nil)
	})
	return app
}

func TestCorrelationIDEchoedFromRequest(t *testing.T) {
	app := newEchoApp()

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "abc-123", resp.Header.Get("X-Correlation-ID"))

	var body utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "abc-123", body.CorrelationID)
}

func TestCorrelationIDGeneratedWhenAbsent(t *testing.T) {
	app := newEchoApp()

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	var body utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, resp.Header.Get("X-Correlation-ID"), body.CorrelationID)
}
