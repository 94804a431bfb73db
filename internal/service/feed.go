package service

import (
	"sync"
	"sync/atomic"

	"geothermal_cycles/internal/models"
)

const defaultFeedBuffer = 16

// FeedHub fans completed solve records out to live subscribers. Publish
// never blocks: a subscriber whose buffer is full misses the record.
type FeedHub struct {
	mu      sync.RWMutex
	subs    map[chan models.SolveRecord]struct{}
	buf     int
	dropped atomic.Uint64
}

// NewFeedHub gives each subscriber a buffer of buf records.
func NewFeedHub(buf int) *FeedHub {
	if buf <= 0 {
		buf = defaultFeedBuffer
	}
	return &FeedHub{subs: make(map[chan models.SolveRecord]struct{}), buf: buf}
}

// Subscribe registers a listener. The returned cancel func closes the
// channel and is safe to call more than once.
func (h *FeedHub) Subscribe() (<-chan models.SolveRecord, func()) {
	ch := make(chan models.SolveRecord, h.buf)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers rec to every subscriber with room in its buffer.
func (h *FeedHub) Publish(rec models.SolveRecord) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- rec:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribers is the number of live listeners.
func (h *FeedHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped counts records not delivered to a full subscriber.
func (h *FeedHub) Dropped() uint64 { return h.dropped.Load() }
