package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessGateDisabledByDefault(t *testing.T) {
	gate := NewAccessGate("")
	assert.False(t, gate.Enabled())

	app := fiber.New()
	app.Get("/ws", gate.Require, func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAccessGateRejectsMissingToken(t *testing.T) {
	gate := NewAccessGate("shh")
	app := fiber.New()
	app.Get("/ws", gate.Require, func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAccessGateAcceptsBearerHeader(t *testing.T) {
	gate := NewAccessGate("shh")
	app := fiber.New()
	app.Get("/ws", gate.Require, func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Authorization", "Bearer shh")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAccessGateAcceptsQueryParam(t *testing.T) {
	gate := NewAccessGate("shh")
	app := fiber.New()
	app.Get("/ws", gate.Require, func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ws?token=shh", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAccessGateRejectsWrongToken(t *testing.T) {
	gate := NewAccessGate("shh")
	app := fiber.New()
	app.Get("/ws", gate.Require, func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ws?token=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
