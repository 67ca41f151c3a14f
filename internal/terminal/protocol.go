package terminal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/noirtty/noirtty-server/internal/recovery"
)

// Format selects the wire encoding for a transport, chosen once at attach
// time per §6.1.
type Format int

const (
	FormatJSON Format = iota
	FormatBinary
)

// ParseFormat maps the `format` query parameter to a Format: bincode/bin/
// binary select the compact binary encoding, anything else selects JSON.
func ParseFormat(s string) Format {
	switch s {
	case "bincode", "bin", "binary":
		return FormatBinary
	default:
		return FormatJSON
	}
}

// EncodeServerMessage serializes msg per format.
func EncodeServerMessage(msg ServerMessage, format Format) ([]byte, error) {
	if format == FormatBinary {
		return cbor.Marshal(msg)
	}
	return json.Marshal(msg)
}

// DecodeClientMessage deserializes a ClientMessage per format.
func DecodeClientMessage(data []byte, format Format) (ClientMessage, error) {
	var msg ClientMessage
	var err error
	if format == FormatBinary {
		err = cbor.Unmarshal(data, &msg)
	} else {
		err = json.Unmarshal(data, &msg)
	}
	return msg, err
}

// Sender delivers one encoded ServerMessage to a transport. Returning an
// error ends the attachment (the transport is assumed gone).
type Sender func(ServerMessage) error

// Attach implements the core's collaborator contract (§6.4): it runs the
// bidirectional pump between a session and one transport until the
// transport's incoming channel closes, the context is cancelled, or a send
// fails. Callers (the ambient HTTP/WebSocket layer) are responsible for
// the gating callback, decoding raw bytes into ClientMessage, and turning
// Sender into an actual socket write.
func Attach(ctx context.Context, s *Session, incoming <-chan ClientMessage, send Sender) {
	subID, frames, _ := s.Broadcaster().Subscribe()
	defer s.Broadcaster().Unsubscribe(subID)
	minInterval := s.minInterval

	recvDone := make(chan struct{})
	recovery.SafeGoWithCleanup("attach-recv:"+string(s.ID), func() {
		for {
			select {
			case msg, ok := <-incoming:
				if !ok {
					return
				}
				Route(s, msg)
			case <-ctx.Done():
				return
			}
		}
	}, func() {
		close(recvDone)
	})

	lastSent := time.Now().Add(-time.Hour)
	for {
		select {
		case msg, ok := <-frames:
			if !ok {
				return
			}
			now := time.Now()
			if !ShouldSend(minInterval, lastSent, now) {
				continue
			}
			if err := send(msg); err != nil {
				return
			}
			lastSent = now
		case <-recvDone:
			return
		case <-ctx.Done():
			return
		}
	}
}
