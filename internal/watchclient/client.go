// Package watchclient implements a minimal debug client for observing a
// session's frame stream from outside the server process.
package watchclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"

	"github.com/noirtty/noirtty-server/internal/terminal"
)

// Client dials a session's WebSocket endpoint and decodes the frame stream.
type Client struct {
	conn   *websocket.Conn
	format terminal.Format
	mu     sync.Mutex
	done   chan struct{}

	onFrame func(terminal.ServerMessage)
	onError func(error)
}

// New constructs a disconnected Client.
func New(format terminal.Format) *Client {
	return &Client{format: format, done: make(chan struct{})}
}

// Connect dials baseURL (http/https, rewritten to ws/wss) with the given
// session id, access token, and format, then starts the read loop.
func (c *Client) Connect(baseURL, sessionID, token string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	q := u.Query()
	q.Set("session", sessionID)
	if c.format == terminal.FormatBinary {
		q.Set("format", "binary")
	}
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	c.mu.Lock()
	defer c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", u.Redacted(), err)
	}
	c.conn = conn

	go c.readLoop()
	return nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.onError != nil {
				c.onError(err)
			}
			return
		}
		msg, err := c.decode(data)
		if err != nil {
			if c.onError != nil {
				c.onError(err)
			}
			return
		}
		if c.onFrame != nil {
			c.onFrame(msg)
		}
	}
}

func (c *Client) decode(data []byte) (terminal.ServerMessage, error) {
	var msg terminal.ServerMessage
	var err error
	if c.format == terminal.FormatBinary {
		err = cbor.Unmarshal(data, &msg)
	} else {
		err = json.Unmarshal(data, &msg)
	}
	return msg, err
}

// OnFrame registers the callback invoked for each decoded frame.
func (c *Client) OnFrame(fn func(terminal.ServerMessage)) { c.onFrame = fn }

// OnError registers the callback invoked when the read loop ends, on a
// read error or on a frame that cannot be decoded.
func (c *Client) OnError(fn func(error)) { c.onError = fn }

// Resize submits a resize request for the watched session.
func (c *Client) Resize(cols, rows int) error {
	return c.send(terminal.ClientMessage{Type: terminal.ClientResize, Cols: cols, Rows: rows})
}

func (c *Client) send(msg terminal.ClientMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	var data []byte
	var err error
	wireType := websocket.TextMessage
	if c.format == terminal.FormatBinary {
		data, err = cbor.Marshal(msg)
		wireType = websocket.BinaryMessage
	} else {
		data, err = json.Marshal(msg)
	}
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(wireType, data)
}

// Close terminates the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Wait blocks until the read loop exits.
func (c *Client) Wait() { <-c.done }
