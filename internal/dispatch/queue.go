package dispatch

import "sync"

// eventQueue is an unbounded FIFO shared by producers and the Run loop.
// Popped slots are reclaimed lazily: once the consumed prefix outgrows the
// live tail the live events are copied to the front.
type eventQueue struct {
	mu     sync.Mutex
	buf    []Event
	head   int
	closed bool
	// wake holds at most one pending wake-up; it is closed by Close.
	wake chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{wake: make(chan struct{}, 1)}
}

// Enqueue appends e. It returns false once the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.buf = append(q.buf, e)

	// Sent under the lock so it cannot race Close.
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the oldest event without blocking.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.buf) {
		return Event{}, false
	}
	e := q.buf[q.head]
	q.buf[q.head] = Event{}
	q.head++

	switch live := len(q.buf) - q.head; {
	case live == 0:
		q.buf, q.head = q.buf[:0], 0
	case q.head > live:
		n := copy(q.buf, q.buf[q.head:])
		clear(q.buf[n:])
		q.buf, q.head = q.buf[:n], 0
	}
	return e, true
}

// Wait returns the wake-up channel. A receive means events may be ready;
// the channel is closed with the queue.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.wake
}

func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf) - q.head
}

func (q *eventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close refuses further events. Queued events stay available to
// TryDequeue.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.wake)
	}
}
