package presence

import (
	"log/slog"
	"sync"
)

// Hub tracks how many clients are currently connected and fans the count out
// to subscribers whenever it changes. It replaces the original socket
// broadcast with a channel-based hub the SSE endpoint drains.
type Hub struct {
	mu          sync.Mutex
	online      int
	subscribers map[chan int]struct{}
	logger      *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[chan int]struct{}),
		logger:      logger,
	}
}

// Join registers one more online client and broadcasts the new count.
func (h *Hub) Join() int {
	h.mu.Lock()
	h.online++
	count := h.online
	h.broadcastLocked(count)
	h.mu.Unlock()

	h.logger.Info("presence join",
		"event", "presence_join",
		"module", "internal/platform/presence",
		"layer", "platform",
		"online_users", count,
	)
	return count
}

// Leave unregisters a client and broadcasts the new count.
func (h *Hub) Leave() int {
	h.mu.Lock()
	if h.online > 0 {
		h.online--
	}
	count := h.online
	h.broadcastLocked(count)
	h.mu.Unlock()

	h.logger.Info("presence leave",
		"event", "presence_leave",
		"module", "internal/platform/presence",
		"layer", "platform",
		"online_users", count,
	)
	return count
}

func (h *Hub) Online() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.online
}

// Subscribe returns a channel receiving count updates and a cancel function
// that must be called when the subscriber disconnects.
func (h *Hub) Subscribe() (<-chan int, func()) {
	ch := make(chan int, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	ch <- h.online
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// broadcastLocked drops updates for slow subscribers rather than blocking the
// hub; a subscriber always receives a later count.
func (h *Hub) broadcastLocked(count int) {
	for ch := range h.subscribers {
		select {
		case ch <- count:
		default:
		}
	}
}
