package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogEntry records one delivery attempt for the dispatch history endpoint.
type LogEntry struct {
	SubscriptionID uuid.UUID `json:"subscription_id,omitempty"`
	Subscription   string    `json:"subscription"`
	Channel        Channel   `json:"channel"`
	Delivered      bool      `json:"delivered"`
	Reason         string    `json:"reason,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}

// history is a bounded ring of recent delivery attempts, newest first on read.
type history struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	full    bool
}

func newHistory(size int) *history {
	if size <= 0 {
		size = 200
	}
	return &history{entries: make([]LogEntry, size)}
}

func (h *history) add(entry LogEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = entry
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

func (h *history) list() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.next
	if h.full {
		count = len(h.entries)
	}
	out := make([]LogEntry, 0, count)
	for i := 0; i < count; i++ {
		idx := (h.next - 1 - i + len(h.entries)) % len(h.entries)
		out = append(out, h.entries[idx])
	}
	return out
}
