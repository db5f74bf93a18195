package store

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// notifications is the process-wide delivery queue.
//
// One goroutine drains it at a time. Values set from inside a delivery on
// that goroutine are appended and delivered after the current subscriber
// returns. Any other goroutine waits for the drain to finish and then drains
// its own jobs, so a Set always returns after its subscribers ran.
var notifications struct {
	drain sync.Mutex

	mu      sync.Mutex
	owner   uint64
	pending []func()
}

// flush delivers jobs in FIFO order.
func flush(jobs ...func()) {
	q := &notifications
	id := goroutineID()

	q.mu.Lock()
	if q.owner == id {
		q.pending = append(q.pending, jobs...)
		q.mu.Unlock()
		return
	}
	q.mu.Unlock()

	q.drain.Lock()
	defer q.drain.Unlock()

	q.mu.Lock()
	q.owner = id
	q.pending = append(q.pending, jobs...)
	q.mu.Unlock()

	// Runs on return and on a subscriber panic, which drops what is left.
	defer func() {
		q.mu.Lock()
		q.owner = 0
		q.pending = nil
		q.mu.Unlock()
	}()

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		job := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		job()
	}
}

// deliver runs job now when the caller is already draining, and through
// flush otherwise. Either way job has run when deliver returns.
func deliver(job func()) {
	q := &notifications
	id := goroutineID()

	q.mu.Lock()
	draining := q.owner == id
	q.mu.Unlock()

	if draining {
		job()
		return
	}
	flush(job)
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the current goroutine's ID from its stack header,
// "goroutine 42 [running]:". IDs start at 1.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		panic("store: cannot parse goroutine id: " + err.Error())
	}
	return id
}
