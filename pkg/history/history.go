// Package history provides a bounded, append-only in-memory buffer with
// copy-on-read snapshots. The error handler uses it as the authoritative
// in-process view of recent error reports.
package history

import "sync"

// Buffer retains the most recent maxEntries values appended to it. Older
// entries are dropped silently when the cap is exceeded. All methods are safe
// for concurrent use.
type Buffer[T any] struct {
	mu         sync.Mutex
	maxEntries int
	entries    []T
}

// New returns a Buffer retaining at most maxEntries values.
// maxEntries <= 0 falls back to 1.
func New[T any](maxEntries int) *Buffer[T] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Buffer[T]{maxEntries: maxEntries}
}

// Append adds v to the end of the buffer, dropping the oldest entries if the
// cap is exceeded.
func (b *Buffer[T]) Append(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, v)
	if len(b.entries) > b.maxEntries {
		// Copy down rather than re-slice so dropped entries are freed.
		overflow := len(b.entries) - b.maxEntries
		kept := make([]T, b.maxEntries)
		copy(kept, b.entries[overflow:])
		b.entries = kept
	}
}

// Snapshot returns a copy of the current entries, oldest first. Mutating the
// returned slice does not affect the buffer.
func (b *Buffer[T]) Snapshot() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]T, len(b.entries))
	copy(out, b.entries)
	return out
}

// Replace swaps the buffer contents for entries, applying the cap. Used when
// loading persisted history at startup.
func (b *Buffer[T]) Replace(entries []T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(entries) > b.maxEntries {
		entries = entries[len(entries)-b.maxEntries:]
	}
	b.entries = make([]T, len(entries))
	copy(b.entries, entries)
}

// Clear removes all entries.
func (b *Buffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}

// Len returns the number of retained entries.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Cap returns the maximum number of retained entries.
func (b *Buffer[T]) Cap() int {
	return b.maxEntries
}
