package listing

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the quiet period after the last search edit before
// the visible list recomputes.
const DefaultSearchDebounce = 100 * time.Millisecond

// debouncer coalesces rapid calls into a single deferred one. Scheduling
// cancels any pending call, so only the last scheduled function ever runs.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &debouncer{delay: delay}
}

// Schedule arranges for fn to run after the quiet period, replacing any
// previously scheduled function that has not fired yet.
func (d *debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel drops any pending call without running it.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
