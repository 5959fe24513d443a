package search

import (
	"context"
	"strings"
	"sync"
	"time"
)

const defaultDebounce = 300 * time.Millisecond

// RunFunc performs one search. ctx is cancelled when a newer query starts.
type RunFunc[T any] func(ctx context.Context, query string) T

// DeliverFunc receives the result of the latest query.
type DeliverFunc[T any] func(query string, result T)

// Debouncer acts only on the last query of a burst. A query runs once no
// newer query has been submitted for the quiet period, and is skipped when
// it equals the query that ran before it. Starting a run cancels the one in
// flight, whose result is then discarded.
type Debouncer[T any] struct {
	delay   time.Duration
	run     RunFunc[T]
	deliver DeliverFunc[T]

	base       context.Context
	stop       context.CancelFunc
	mu         sync.Mutex
	timer      *time.Timer
	pending    string
	submitted  uint64
	last       string
	ran        bool
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

func NewDebouncer[T any](ctx context.Context, delay time.Duration, run RunFunc[T], deliver DeliverFunc[T]) *Debouncer[T] {
	if delay <= 0 {
		delay = defaultDebounce
	}
	base, stop := context.WithCancel(ctx)
	return &Debouncer[T]{delay: delay, run: run, deliver: deliver, base: base, stop: stop}
}

// Submit records query as the latest input and restarts the quiet period.
func (d *Debouncer[T]) Submit(query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.submitted++
	d.pending = query
	if d.timer != nil {
		d.timer.Stop()
	}
	seq := d.submitted
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if d.closed || seq != d.submitted {
		d.mu.Unlock()
		return
	}
	query := d.pending
	if d.ran && query == d.last {
		d.mu.Unlock()
		return
	}
	d.last, d.ran = query, true

	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(d.base)
	d.cancel = cancel
	d.generation++
	gen := d.generation
	d.mu.Unlock()

	result := d.run(ctx, query)

	d.mu.Lock()
	current := gen == d.generation && !d.closed && ctx.Err() == nil
	if gen == d.generation {
		d.cancel = nil
	}
	d.mu.Unlock()
	cancel()

	if current {
		d.deliver(query, result)
	}
}

// Close stops the pending timer and cancels the run in flight. Later
// submissions are ignored.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.stop()
}
