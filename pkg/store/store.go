package store

import (
	"sync"
	"sync/atomic"
)

// Unsubscriber detaches a subscriber from a store.
// Calling it more than once is a no-op.
type Unsubscriber func()

// Readable is a value holder with subscription-based change notification.
type Readable[T any] interface {
	// Subscribe delivers the current value to run before returning and then
	// every subsequent value until the returned Unsubscriber is called.
	Subscribe(run func(T)) Unsubscriber
}

// Writable is a Readable that can be set from the outside.
type Writable[T any] interface {
	Readable[T]
	Set(value T)
	Update(fn func(T) T)
}

// StopFunc releases whatever a StartFunc acquired.
type StopFunc func()

// StartFunc is invoked when a store gets its first subscriber. The returned
// StopFunc (may be nil) runs when the last subscriber leaves.
type StartFunc[T any] func(set func(T), update func(func(T) T)) StopFunc

type subscription[T any] struct {
	run    func(T)
	active atomic.Bool
}

type writable[T any] struct {
	mu      sync.Mutex
	value   T
	subs    []*subscription[T]
	started bool

	// lifecycle serializes StartFunc/StopFunc transitions.
	lifecycle sync.Mutex
	start     StartFunc[T]
	stop      StopFunc
}

// NewWritable creates a store holding value. start may be nil.
func NewWritable[T any](value T, start StartFunc[T]) Writable[T] {
	return &writable[T]{
		value: value,
		start: start,
	}
}

// NewReadable creates a store that can only be set from its StartFunc.
// A nil start yields a constant store.
func NewReadable[T any](value T, start StartFunc[T]) Readable[T] {
	return NewWritable(value, start)
}

// Set replaces the value. Subscribers are only notified while the store is
// active; a Set issued from inside the StartFunc updates the value silently
// and the value reaches the new subscriber through its first delivery.
func (w *writable[T]) Set(value T) {
	w.mu.Lock()
	w.value = value
	if !w.started || len(w.subs) == 0 {
		w.mu.Unlock()
		return
	}
	jobs := make([]func(), 0, len(w.subs))
	for _, sub := range w.subs {
		sub := sub
		jobs = append(jobs, func() {
			if sub.active.Load() {
				sub.run(value)
			}
		})
	}
	w.mu.Unlock()

	flush(jobs...)
}

// Update sets the value to fn(current).
func (w *writable[T]) Update(fn func(T) T) {
	w.mu.Lock()
	current := w.value
	w.mu.Unlock()
	w.Set(fn(current))
}

// Subscribe implements Readable.
func (w *writable[T]) Subscribe(run func(T)) Unsubscriber {
	sub := &subscription[T]{run: run}
	sub.active.Store(true)

	w.lifecycle.Lock()
	w.mu.Lock()
	w.subs = append(w.subs, sub)
	first := len(w.subs) == 1 && !w.started
	w.mu.Unlock()

	if first {
		var stop StopFunc
		if w.start != nil {
			stop = w.start(w.Set, w.Update)
		}
		w.mu.Lock()
		w.stop = stop
		w.started = true
		w.mu.Unlock()
	}
	w.lifecycle.Unlock()

	// The first delivery goes through the queue so that values set while it
	// runs are delivered after it, not inside it.
	deliver(func() {
		w.mu.Lock()
		current := w.value
		w.mu.Unlock()
		if sub.active.Load() {
			run(current)
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() { w.unsubscribe(sub) })
	}
}

func (w *writable[T]) unsubscribe(sub *subscription[T]) {
	sub.active.Store(false)

	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	w.mu.Lock()
	for i, s := range w.subs {
		if s == sub {
			w.subs = append(w.subs[:i:i], w.subs[i+1:]...)
			break
		}
	}
	var stop StopFunc
	if len(w.subs) == 0 && w.started {
		stop = w.stop
		w.stop = nil
		w.started = false
	}
	w.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Get extracts the current value of r by subscribing and immediately unsubscribing.
// For lazily started stores this runs a full start/stop cycle.
func Get[T any](r Readable[T]) T {
	var value T
	unsubscribe := r.Subscribe(func(v T) {
		value = v
	})
	unsubscribe()
	return value
}
