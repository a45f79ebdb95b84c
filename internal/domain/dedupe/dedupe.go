// Package dedupe tracks identifiers that were already seen.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen IDs so that each one is accepted at most once.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so it can be accepted again.
	Unrecord(ctx context.Context, id string)

	// Reset forgets every ID.
	Reset(ctx context.Context)

	Size() int64
}

// inMemoryDeduper keeps IDs in a map. In bounded mode an insertion-ordered
// queue drives oldest-first eviction; entries removed by Unrecord are
// skipped lazily when they reach the front.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]uint64 // id -> insertion sequence
	order   []entry
	seq     uint64
	maxSize int
}

type entry struct {
	id  string
	seq uint64
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]uint64)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	d.seq++
	d.seen[id] = d.seq
	if d.maxSize > 0 {
		d.order = append(d.order, entry{id: id, seq: d.seq})
		for len(d.seen) > d.maxSize {
			d.evictOldest()
		}
	}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Reset(_ context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]uint64)
	d.order = nil
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}

// evictOldest drops the oldest live entry. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	for len(d.order) > 0 {
		head := d.order[0]
		d.order = d.order[1:]
		// stale if unrecorded or re-recorded since
		if seq, ok := d.seen[head.id]; ok && seq == head.seq {
			delete(d.seen, head.id)
			return
		}
	}
}
