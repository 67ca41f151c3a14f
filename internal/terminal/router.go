package terminal

import "github.com/noirtty/noirtty-server/internal/logger"

// Route dispatches one parsed ClientMessage against a session, per §4.6.
// Malformed messages (an unrecognized Type) are logged and discarded; the
// transport remains open.
func Route(s *Session, msg ClientMessage) {
	switch msg.Type {
	case ClientData:
		s.Submit(NewPtyData([]byte(msg.Data)))
	case ClientResize:
		if msg.Cols < 1 || msg.Rows < 1 {
			logger.Warnf("session %s: ignoring resize with non-positive dimensions %dx%d", s.ID, msg.Cols, msg.Rows)
			return
		}
		s.Submit(NewPtyResize(uint16(msg.Cols), uint16(msg.Rows)))
	case ClientScroll:
		s.Submit(NewPtyScroll(msg.Delta))
	case ClientQuality:
		s.SetMinIntervalMs(msg.MinIntervalMs)
	default:
		logger.Warnf("session %s: discarding malformed client message with type %q", s.ID, msg.Type)
	}
}
