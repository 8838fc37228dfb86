// Package dedupe tracks seen snapshot ids for at-most-once processing of
// submissions. Timeline-event deduplication is a separate, call-local
// concern inside the synthesizer; this tracker only guards the intake side.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// defaultMaxSize bounds the tracker when no option overrides it.
const defaultMaxSize = 50_000

// Tracker records seen snapshot ids.
type Tracker interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing it to be resubmitted. Used when a
	// snapshot was marked seen but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int64
}

// inMemoryTracker implements Tracker with a map plus a FIFO ring for
// bounded eviction. With maxSize <= 0 the tracker is unbounded.
type inMemoryTracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryTracker creates an in-memory tracker with configuration options.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.seen = make(map[string]struct{})
	if t.maxSize > 0 {
		t.ring = make([]string, t.maxSize)
	}

	return t
}

func (t *inMemoryTracker) SeenAndRecord(ctx context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[id]; exists {
		return true
	}

	if t.maxSize > 0 {
		// Evict the oldest id occupying this ring slot.
		if old := t.ring[t.next]; old != "" {
			delete(t.seen, old)
			t.size.Add(-1)
		}
		t.ring[t.next] = id
		t.next = (t.next + 1) % t.maxSize
	}

	t.seen[id] = struct{}{}
	t.size.Add(1)
	return false
}

func (t *inMemoryTracker) Unrecord(ctx context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[id]; !exists {
		return
	}
	delete(t.seen, id)
	t.size.Add(-1)

	if t.maxSize > 0 {
		for i, v := range t.ring {
			if v == id {
				t.ring[i] = ""
				break
			}
		}
	}
}

func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
