package stream

import (
	"sync"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
)

const subscriberBuffer = 64

// Hub fans events out to any number of subscribers. Each subscriber owns a
// buffered channel; a slow subscriber drops its own events once the buffer
// fills, without delaying the publisher or the other subscribers.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*subscriber]struct{}
	dropped func(n int)
}

type subscriber struct {
	ch      chan securitylog.Event
	dropped int
}

// NewHub creates an empty hub. onDropped, if non-nil, is invoked with the
// running drop count each time a subscriber's buffer overflows.
func NewHub(onDropped func(n int)) *Hub {
	return &Hub{
		subs:    make(map[*subscriber]struct{}),
		dropped: onDropped,
	}
}

// Subscribe registers a new subscriber and returns its event channel plus a
// cancel function. Cancel is idempotent and closes the channel.
func (h *Hub) Subscribe() (<-chan securitylog.Event, func()) {
	sub := &subscriber{ch: make(chan securitylog.Event, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			// Closing under the write lock keeps Publish, which sends
			// under the read lock, from racing a send against the close.
			h.mu.Lock()
			delete(h.subs, sub)
			close(sub.ch)
			h.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Publish delivers ev to every current subscriber. Never blocks.
func (h *Hub) Publish(ev securitylog.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			sub.dropped++
			if h.dropped != nil {
				h.dropped(sub.dropped)
			}
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
