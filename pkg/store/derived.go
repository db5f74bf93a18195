package store

import "sync"

// Pair holds the latest values of two stores.
type Pair[A, B any] struct {
	First  A
	Second B
}

// MakePair builds a Pair. It has the shape expected by Derived2.
func MakePair[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// Derived2 combines two stores into one whose value is fn(a, b), recomputed
// whenever either source emits. Sources are only subscribed while the
// derived store itself has subscribers.
func Derived2[A, B, T any](a Readable[A], b Readable[B], fn func(A, B) T) Readable[T] {
	var zero T
	return NewReadable(zero, func(set func(T), _ func(func(T) T)) StopFunc {
		var (
			mu    sync.Mutex
			va    A
			vb    B
			ready bool
		)

		recompute := func() {
			mu.Lock()
			if !ready {
				mu.Unlock()
				return
			}
			value := fn(va, vb)
			mu.Unlock()
			set(value)
		}

		unsubA := a.Subscribe(func(v A) {
			mu.Lock()
			va = v
			mu.Unlock()
			recompute()
		})
		unsubB := b.Subscribe(func(v B) {
			mu.Lock()
			vb = v
			mu.Unlock()
			recompute()
		})

		mu.Lock()
		ready = true
		mu.Unlock()
		recompute()

		return func() {
			unsubA()
			unsubB()
		}
	})
}
