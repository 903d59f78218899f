package app

import "sync"

// writeQueue runs record writes one at a time in the order their tickets
// were issued. Tickets are handed out from Update, so writes land in key
// press order even though Bubble Tea runs each command on its own
// goroutine.
type writeQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	issued uint64
	next   uint64
}

func newWriteQueue() *writeQueue {
	q := &writeQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// ticket reserves the next slot in the queue.
func (q *writeQueue) ticket() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	t := q.issued
	q.issued++
	return t
}

// run waits for the turn of ticket t, then calls fn. Every ticket must be
// run exactly once or later writes block forever.
func (q *writeQueue) run(t uint64, fn func()) {
	q.mu.Lock()
	for q.next != t {
		q.cond.Wait()
	}
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.next++
		q.cond.Broadcast()
		q.mu.Unlock()
	}()
	fn()
}

// idle reports whether every issued write has finished.
func (q *writeQueue) idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.next == q.issued
}
