package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/noirtty/noirtty-server/internal/logger"
	"github.com/noirtty/noirtty-server/internal/middleware"
	"github.com/noirtty/noirtty-server/internal/terminal"
)

// AttachHandler upgrades a request to a WebSocket and pumps it through the
// terminal core's collaborator contract. It knows nothing about PTYs or
// the emulator; it only translates frames <-> socket messages.
type AttachHandler struct {
	registry *terminal.Registry
	gate     *middleware.AccessGate
}

// NewAttachHandler constructs an AttachHandler.
func NewAttachHandler(registry *terminal.Registry, gate *middleware.AccessGate) *AttachHandler {
	return &AttachHandler{registry: registry, gate: gate}
}

// Handle is registered at GET /ws.
func (h *AttachHandler) Handle(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if h.gate != nil && !h.gate.Authorize(c) {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	sessionID := resolveSessionID(c)
	format := terminal.ParseFormat(c.Query("format"))

	return websocket.New(func(conn *websocket.Conn) {
		h.handleConn(conn, sessionID, format)
	})(c)
}

// resolveSessionID returns the requested session id, minting a fresh one
// when the client didn't ask for a specific session.
func resolveSessionID(c *fiber.Ctx) terminal.SessionId {
	if sessionParam := c.Query("session"); sessionParam != "" {
		return terminal.SessionId(sessionParam)
	}
	return terminal.NewSessionId()
}

func (h *AttachHandler) handleConn(conn *websocket.Conn, id terminal.SessionId, format terminal.Format) {
	defer conn.Close()

	session, err := h.registry.GetOrCreate(id)
	if err != nil {
		logger.Errorf("failed to create session %q: %v", id, err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	incoming := make(chan terminal.ClientMessage)
	go func() {
		defer close(incoming)
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg terminal.ClientMessage
			if format == terminal.FormatJSON && mt == websocket.BinaryMessage {
				// A binary frame on a text transport is raw input.
				msg = terminal.ClientMessage{Type: terminal.ClientData, Data: string(data)}
			} else if msg, err = terminal.DecodeClientMessage(data, format); err != nil {
				logger.Warnf("discarding undecodable client message on session %q: %v", id, err)
				continue
			}
			select {
			case incoming <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	wireType := websocket.TextMessage
	if format == terminal.FormatBinary {
		wireType = websocket.BinaryMessage
	}

	terminal.Attach(ctx, session, incoming, func(msg terminal.ServerMessage) error {
		data, err := terminal.EncodeServerMessage(msg, format)
		if err != nil {
			return err
		}
		return conn.WriteMessage(wireType, data)
	})
}
