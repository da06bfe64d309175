package core

import (
	"sync"

	"github.com/searchktools/static-server/core/stats"
)

// ConnectionQueue decouples the acceptor thread from worker scheduling: a
// thread-safe FIFO of accepted-but-unprocessed connections.
//
// There is no software capacity bound; the listener's socket backlog is
// the admission control. Ordering is arrival order, and ownership of a
// popped connection is exclusive.
type ConnectionQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*Connection
	closed bool
}

// NewConnectionQueue returns an empty queue.
func NewConnectionQueue() *ConnectionQueue {
	q := &ConnectionQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends c and wakes one waiting worker. After Shutdown it fails
// with ErrQueueClosed and the caller must close the connection itself.
func (q *ConnectionQueue) Push(c *Connection) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, c)
	stats.QueueDepth.Set(float64(len(q.items)))
	q.mu.Unlock()

	q.cond.Signal()
	return nil
}

// Pop blocks until a connection is available or the queue is shut down.
// Remaining items are still drained after Shutdown; ok is false only once
// the queue is both closed and empty.
func (q *ConnectionQueue) Pop() (c *Connection, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.popLocked()
}

// TryPop returns immediately; ok is false when the queue is empty.
func (q *ConnectionQueue) TryPop() (c *Connection, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

func (q *ConnectionQueue) popLocked() (*Connection, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	c := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	stats.QueueDepth.Set(float64(len(q.items)))
	return c, true
}

// Shutdown marks the queue closed and broadcasts so every blocked worker
// observes the flag promptly.
func (q *ConnectionQueue) Shutdown() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// Len reports the current depth.
func (q *ConnectionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
