// Package handlers wires the HTTP/WebSocket surface onto the terminal core.
package handlers

import "github.com/gofiber/fiber/v2"

// Health responds 200 OK unconditionally; it is never gated.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
