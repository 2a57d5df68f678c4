package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a typed query runs.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer lets only the most recent of a burst of queries fire. The
// caller schedules its own tick after Delay and, when the tick arrives,
// asks Current whether the generation it was issued is still the latest.
type Debouncer struct {
	delay time.Duration

	mu  sync.Mutex
	gen uint64
}

// NewDebouncer returns a Debouncer with the given quiet period. A
// non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Next starts a new generation, superseding every earlier one.
func (d *Debouncer) Next() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	return d.gen
}

// Current reports whether gen is still the latest generation.
func (d *Debouncer) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}
