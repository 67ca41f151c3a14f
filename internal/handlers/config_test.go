package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noirtty/noirtty-server/internal/config"
)

func TestConfigHandlerGet(t *testing.T) {
	h := NewConfigHandler(config.RuntimeConfig{
		AccessToken:          "shh",
		DefaultMinIntervalMs: 33,
	})
	app := fiber.New()
	app.Get("/config", h.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/config", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, true, decoded["gate_enabled"])
	assert.EqualValues(t, 33, decoded["default_min_interval_ms"])
}
