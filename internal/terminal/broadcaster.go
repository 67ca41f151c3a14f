package terminal

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/noirtty/noirtty-server/internal/logger"
)

// subscriberCapacity is the per-subscriber buffered channel depth, the Go
// idiom for the spec's "bounded ring capacity 256": Go has no built-in
// multi-consumer broadcast channel, so each subscriber gets its own
// bounded channel and the publish loop fans out with a non-blocking send.
const subscriberCapacity = 256

// subscriber is one attached transport's view of the broadcast stream. It
// carries its own minIntervalMs slot, returned by Subscribe; Attach does
// not use it and throttles sends on the session's shared interval instead.
// The send-time throttle is evaluated by the transport's own send loop via
// ShouldSend, since only that loop knows when it last actually wrote to
// its socket.
type subscriber struct {
	id            uint64
	ch            chan ServerMessage
	minIntervalMs *atomic.Int64
	dropped       uint64
}

// Broadcaster stores the latest frame and fans every published frame out
// to any number of attached subscribers, applying per-subscriber lag
// handling and (at send time, via ShouldSend) the per-transport throttle.
type Broadcaster struct {
	id SessionId

	mu       sync.Mutex
	last     *ServerMessage
	subs     map[uint64]*subscriber
	nextSubID uint64
	closed   bool
}

// NewBroadcaster constructs an empty Broadcaster for session id.
func NewBroadcaster(id SessionId) *Broadcaster {
	return &Broadcaster{id: id, subs: make(map[uint64]*subscriber)}
}

// Publish stores msg as the last frame and fans it out to every subscriber.
// A subscriber whose channel is full is lagging: its pending frames are
// discarded and replaced with the newest one rather than blocking the
// publisher or disconnecting anyone else.
func (b *Broadcaster) Publish(msg ServerMessage) {
	b.mu.Lock()
	b.last = &msg
	subs := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- msg:
		default:
			// Lagging: drain every stale frame and enqueue only the
			// newest one so the subscriber resumes latest-onward.
		drain:
			for {
				select {
				case _, ok := <-s.ch:
					if !ok {
						break drain
					}
				default:
					break drain
				}
			}
			atomic.AddUint64(&s.dropped, 1)
			logger.Debugf("session %s: subscriber %d lagged, skipping to newest frame", b.id, s.id)
			select {
			case s.ch <- msg:
			default:
			}
		}
	}
}

// Subscribe registers a new subscriber and immediately enqueues the last
// published frame (if any), satisfying the "late joiner sees current
// screen" guarantee. The returned channel is closed by Unsubscribe, or
// right after that last frame when CloseAll has already run.
func (b *Broadcaster) Subscribe() (id uint64, ch <-chan ServerMessage, minIntervalMs *atomic.Int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSubID++
	s := &subscriber{
		id:            b.nextSubID,
		ch:            make(chan ServerMessage, subscriberCapacity),
		minIntervalMs: &atomic.Int64{},
	}
	if b.last != nil {
		s.ch <- *b.last
	}
	if b.closed {
		close(s.ch)
		return s.id, s.ch, s.minIntervalMs
	}
	b.subs[s.id] = s
	return s.id, s.ch, s.minIntervalMs
}

// Unsubscribe removes a subscriber. Safe to call more than once.
func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(s.ch)
	}
}

// CloseAll closes every subscriber channel, signalling end-of-stream. Used
// once the session's PTY has exited and the emulator loop has drained.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, s := range b.subs {
		close(s.ch)
		delete(b.subs, id)
	}
}

// SubscriberCount reports the number of currently attached subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// LastFrame returns the most recently published message, if any.
func (b *Broadcaster) LastFrame() (ServerMessage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return ServerMessage{}, false
	}
	return *b.last, true
}

// ShouldSend applies the per-transport send throttle (§4.4): when
// minIntervalMs > 0 and less time than that has elapsed since the
// subscriber's last transmit, the frame should be dropped for this
// transport only. The newest frame always wins; dropped frames are never
// buffered for later delivery.
func ShouldSend(minIntervalMs *atomic.Int64, lastSent time.Time, now time.Time) bool {
	min := minIntervalMs.Load()
	if min <= 0 {
		return true
	}
	return now.Sub(lastSent) >= time.Duration(min)*time.Millisecond
}
