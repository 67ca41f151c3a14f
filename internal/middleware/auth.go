// Package middleware implements the Access Gate: the minimal stand-in for
// the out-of-scope passkey/WebAuthn gate, satisfying the core's "gating
// callback returning authorized before attach" contract with a shared
// bearer token.
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccessGate gates requests behind a shared token. A zero-value AccessGate
// (empty token) authorizes everything, matching local/dev mode.
type AccessGate struct {
	token string
}

// NewAccessGate constructs an AccessGate for the given token. An empty
// token disables the gate.
func NewAccessGate(token string) *AccessGate {
	return &AccessGate{token: token}
}

// Enabled reports whether the gate enforces a token.
func (g *AccessGate) Enabled() bool {
	return g.token != ""
}

// Authorize is the core's gating callback: true if the request carries a
// matching token, or if the gate is disabled.
func (g *AccessGate) Authorize(c *fiber.Ctx) bool {
	if !g.Enabled() {
		return true
	}
	token := g.extractToken(c)
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(g.token)) == 1
}

// Require is a Fiber middleware wrapping Authorize.
func (g *AccessGate) Require(c *fiber.Ctx) error {
	if !g.Authorize(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}
	return c.Next()
}

func (g *AccessGate) extractToken(c *fiber.Ctx) string {
	if auth := c.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	return ""
}
