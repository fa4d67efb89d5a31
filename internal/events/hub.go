package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber
// that falls this far behind starts losing events.
const subscriberBuffer = 64

// Hub is an in-memory broadcast sink. Publishers never block: events
// for slow subscribers are dropped, and publishing to a channel with
// no subscribers is a no-op.
type Hub struct {
	log *zap.Logger

	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:  log,
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Publish delivers ev to every subscriber of ev.Channel without
// blocking. Implements Sink.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[ev.Channel] {
		select {
		case ch <- ev:
		default:
			h.log.Debug("dropping event for slow subscriber",
				zap.String("channel", ev.Channel),
				zap.String("type", string(ev.Type)))
		}
	}
}

// Subscribe registers a listener for the named channels and returns the
// event stream plus an unsubscribe func. The unsubscribe func closes
// the stream and is safe to call more than once.
func (h *Hub) Subscribe(channels ...string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	for _, name := range channels {
		if h.subs[name] == nil {
			h.subs[name] = make(map[chan Event]struct{})
		}
		h.subs[name][ch] = struct{}{}
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			for _, name := range channels {
				delete(h.subs[name], ch)
				if len(h.subs[name]) == 0 {
					delete(h.subs, name)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// SubscribeJob subscribes to every event type of one job.
func (h *Hub) SubscribeJob(jobID string) (<-chan Event, func()) {
	return h.Subscribe(
		JobChannel(jobID, TypeLog),
		JobChannel(jobID, TypeProgress),
		JobChannel(jobID, TypeQuestionsGenerated),
		JobChannel(jobID, TypeCompleted),
		JobChannel(jobID, TypeError),
	)
}
