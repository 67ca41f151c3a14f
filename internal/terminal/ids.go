package terminal

import "github.com/google/uuid"

// SessionId opaquely identifies a live session. Clients may choose their own;
// when absent the attach handler mints a fresh one with NewSessionId.
type SessionId string

// NewSessionId mints a fresh random SessionId.
func NewSessionId() SessionId {
	return SessionId(uuid.NewString())
}
