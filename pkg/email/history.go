package email

import (
	"sync"
	"time"
)

// SendStatus is the outcome of a dispatch attempt.
type SendStatus string

const (
	StatusSent   SendStatus = "sent"
	StatusFailed SendStatus = "failed"
)

// SendRecord is one dispatch attempt. Records are immutable once appended.
type SendRecord struct {
	ID         string     `json:"id"`
	Recipients []string   `json:"to"`
	Subject    string     `json:"subject"`
	Template   string     `json:"template,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	Status     SendStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
}

func (r SendRecord) clone() SendRecord {
	r.Recipients = append([]string(nil), r.Recipients...)
	return r
}

// History is an in-memory, insertion-ordered log of send attempts.
// It is safe for concurrent use.
type History struct {
	mu       sync.Mutex
	records  []SendRecord
	capacity int
}

// NewHistory creates a History holding at most capacity records; the oldest
// record is evicted when full. A capacity of zero or less means unbounded.
func NewHistory(capacity int) *History {
	return &History{capacity: capacity}
}

// Append stores a copy of rec.
func (h *History) Append(rec SendRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.capacity > 0 && len(h.records) >= h.capacity {
		drop := len(h.records) - h.capacity + 1
		// shift in place; the backing array stays at capacity
		n := copy(h.records, h.records[drop:])
		clear(h.records[n:])
		h.records = h.records[:n]
	}
	h.records = append(h.records, rec.clone())
}

// List returns a snapshot in insertion order. Mutating it does not affect the store.
func (h *History) List() []SendRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]SendRecord, len(h.records))
	for i, r := range h.records {
		out[i] = r.clone()
	}
	return out
}

// Clear removes every record.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}
