// Package observable provides a mutable value that pushes every new state
// to its subscribers.
package observable

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Value holds the current state and the set of subscribers. Subscribers
// always see the latest state: if a subscriber falls behind, pending states
// it has not read yet are replaced by the newest one.
type Value[T any] struct {
	mu      sync.RWMutex
	current T
	subs    map[uuid.UUID]chan T
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[uuid.UUID]chan T),
	}
}

// Get returns the current state.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set replaces the current state and notifies subscribers.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = next
	v.publishLocked(next)
}

// Update applies fn to the current state atomically. Subscribers are only
// notified when fn reports a change.
func (v *Value[T]) Update(fn func(current T) (T, bool)) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	next, changed := fn(v.current)
	if !changed {
		return v.current
	}
	v.current = next
	v.publishLocked(next)
	return next
}

// Subscribe returns a channel that first yields the current state and then
// every later state. The channel is closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	id := uuid.New()

	v.mu.Lock()
	ch <- v.current
	v.subs[id] = ch
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, id)
		close(ch)
		v.mu.Unlock()
	}()

	return ch
}

// Subscribers reports the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

func (v *Value[T]) publishLocked(next T) {
	for _, ch := range v.subs {
		select {
		case ch <- next:
			continue
		default:
		}
		// Drop the stale pending state so the reader wakes up to the newest.
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
