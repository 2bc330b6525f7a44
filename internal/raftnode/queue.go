package raftnode

import "sync"

// Queue is a mutex-guarded FIFO of pending Req values, the only channel
// through which front-end goroutines may reach the replication goroutine
// (I3). Enqueue never blocks the caller on engine work; it only appends and
// signals the wakeup channel.
type Queue struct {
	mu     sync.Mutex
	items  []*Req
	wakeup chan struct{}
}

// NewQueue creates an empty request queue with a buffered wakeup signal.
func NewQueue() *Queue {
	return &Queue{
		wakeup: make(chan struct{}, 1),
	}
}

// Enqueue appends req and signals the wakeup channel. Safe to call from any
// goroutine.
func (q *Queue) Enqueue(req *Req) {
	q.mu.Lock()
	q.items = append(q.items, req)
	q.mu.Unlock()
	q.notify()
}

// Wakeup returns the channel the replication goroutine selects on to learn
// there is work to drain.
func (q *Queue) Wakeup() <-chan struct{} {
	return q.wakeup
}

// Drain removes and returns every currently queued request, in FIFO order.
// Called only from the replication goroutine.
func (q *Queue) Drain() []*Req {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}

func (q *Queue) notify() {
	select {
	case q.wakeup <- struct{}{}:
	default:
	}
}
