// Package dedupe tracks identities already seen during one pipeline run.
package dedupe

import "sync"

// Deduper records seen identities so each is kept at most once.
type Deduper interface {
	// SeenAndRecord reports whether id was seen before and records it if not.
	SeenAndRecord(id string) bool
}

// setDeduper implements Deduper with a map guarded by a mutex.
type setDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	capacity int
	onDup    func(id string)
}

// New creates an empty Deduper.
func New(opts ...Option) Deduper {
	d := &setDeduper{onDup: func(string) {}}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *setDeduper) SeenAndRecord(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		d.onDup(id)
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

// Unique returns items with later duplicates removed, keeping first-seen
// order. key maps an item to its identity.
func Unique[T any](items []T, key func(T) string, opts ...Option) []T {
	d := New(append([]Option{WithCapacity(len(items))}, opts...)...)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !d.SeenAndRecord(key(it)) {
			out = append(out, it)
		}
	}
	return out
}
