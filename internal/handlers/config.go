package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noirtty/noirtty-server/internal/config"
)

// ConfigHandler exposes the effective, non-secret runtime configuration so
// a browser client can discover the access-gate state and default quality
// settings without guessing at env vars.
type ConfigHandler struct {
	cfg config.RuntimeConfig
}

// NewConfigHandler constructs a ConfigHandler for the given config.
func NewConfigHandler(cfg config.RuntimeConfig) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// Get handles GET /config.
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"gate_enabled":             h.cfg.GateEnabled(),
		"default_min_interval_ms": h.cfg.DefaultMinIntervalMs,
		"dev":                      h.cfg.Dev,
	})
}
