package terminal

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/noirtty/noirtty-server/internal/logger"
)

// Registry is a concurrent mapping from SessionId to Session, the sole
// owner of Session lifetimes.
type Registry struct {
	mu                   sync.RWMutex
	sessions             map[SessionId]*Session
	defaultMinIntervalMs int64

	group singleflight.Group
}

// NewRegistry constructs an empty Registry. defaultMinIntervalMs seeds the
// throttle of every newly created session.
func NewRegistry(defaultMinIntervalMs int64) *Registry {
	return &Registry{
		sessions:             make(map[SessionId]*Session),
		defaultMinIntervalMs: defaultMinIntervalMs,
	}
}

// GetOrCreate returns the existing session for id, or constructs a fresh
// one. Concurrent callers racing on the same id are serialized through a
// singleflight group so exactly one shell is spawned.
func (r *Registry) GetOrCreate(id SessionId) (*Session, error) {
	r.mu.RLock()
	if s, ok := r.sessions[id]; ok {
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(string(id), func() (interface{}, error) {
		r.mu.Lock()
		if s, ok := r.sessions[id]; ok {
			r.mu.Unlock()
			return s, nil
		}
		r.mu.Unlock()

		s, err := newSession(id, r.defaultMinIntervalMs)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.sessions[id] = s
		r.mu.Unlock()
		logger.Infof("registry: created session %s", id)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// DropIfDead removes id's entry if its PTY has exited and no transports
// remain attached.
func (r *Registry) DropIfDead(id SessionId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return
	}
	if s.Dead() && s.Broadcaster().SubscriberCount() == 0 {
		delete(r.sessions, id)
		logger.Infof("registry: reclaimed dead session %s", id)
	}
}

// Reap sweeps every known session through DropIfDead. Intended to be
// called periodically so abandoned dead sessions are reclaimed even
// without a triggering attach.
func (r *Registry) Reap() {
	r.mu.RLock()
	ids := make([]SessionId, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.DropIfDead(id)
	}
}

// Len reports the number of sessions currently tracked, live or dead.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
