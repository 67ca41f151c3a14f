package terminal

import (
	"sync/atomic"

	"github.com/noirtty/noirtty-server/internal/logger"
	"github.com/noirtty/noirtty-server/internal/recovery"
)

// Session ties one PTY Host, one Emulator Loop and one Frame Broadcaster
// together behind a SessionId. It is the unit the registry hands out and
// the unit a transport attaches to.
type Session struct {
	ID SessionId

	ptyQueue    chan PtyCommand
	termQueue   chan TermCommand
	broadcaster *Broadcaster
	minInterval *atomic.Int64
	host        *PTYHost

	dead chan struct{} // closed once the session has fully torn down
}

// newSession starts a fresh PTY, Emulator Loop and Broadcaster for id.
func newSession(id SessionId, defaultMinIntervalMs int64) (*Session, error) {
	ptyQueue := make(chan PtyCommand, 1024)
	termQueue := make(chan TermCommand, 1024)
	broadcaster := NewBroadcaster(id)

	min := &atomic.Int64{}
	min.Store(defaultMinIntervalMs)

	host, err := StartPTYHost(id, termQueue, ptyQueue)
	if err != nil {
		return nil, err
	}

	emulator := NewEmulator(id, defaultCols, defaultRows, min, broadcaster)
	emulatorDone := make(chan struct{})
	recovery.SafeGoWithCleanup("emulator:"+string(id), func() {
		emulator.Run(termQueue)
	}, func() {
		close(emulatorDone)
	})

	s := &Session{
		ID:          id,
		ptyQueue:    ptyQueue,
		termQueue:   termQueue,
		broadcaster: broadcaster,
		minInterval: min,
		host:        host,
		dead:        make(chan struct{}),
	}

	recovery.SafeGo("session-lifecycle:"+string(id), func() {
		<-host.ReaderDone()
		close(ptyQueue)
		<-host.ControlDone()
		close(termQueue)
		<-emulatorDone
		broadcaster.CloseAll()
		_ = host.Wait()
		_ = host.Close()
		logger.Infof("session %s: shell exited, session torn down", id)
		close(s.dead)
	})

	return s, nil
}

// Submit delivers a PtyCommand to this session's Input Router destination
// (the PTY Host). A saturated queue blocks the caller, which is the
// intended backpressure: a wedged shell should stall the submitting
// transport rather than silently drop input.
func (s *Session) Submit(cmd PtyCommand) {
	s.ptyQueue <- cmd
}

// SetMinIntervalMs updates the session-wide emitter throttle, per a
// Quality message. Takes effect at the next throttle check.
func (s *Session) SetMinIntervalMs(ms int64) {
	if ms < 0 {
		ms = 0
	}
	s.minInterval.Store(ms)
}

// Broadcaster exposes the session's Frame Broadcaster to transports.
func (s *Session) Broadcaster() *Broadcaster { return s.broadcaster }

// Dead reports whether the session's PTY has exited.
func (s *Session) Dead() bool {
	select {
	case <-s.dead:
		return true
	default:
		return false
	}
}

// DeadCh is closed once the session has fully torn down.
func (s *Session) DeadCh() <-chan struct{} { return s.dead }
