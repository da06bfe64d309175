package core

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/searchktools/static-server/core/arena"
)

// WorkerPool runs a fixed set of workers, each independently pulling
// connections from the queue and serving them to completion. Workers use
// the busy-poll variant: a non-blocking pop with a short sleep on empty,
// which avoids priority inversion against the acceptor under load.
type WorkerPool struct {
	n        int
	queue    *ConnectionQueue
	shutdown *atomic.Bool
	handle   func(*Connection, *arena.Arena)
	wg       sync.WaitGroup
}

// NewWorkerPool sizes the pool from the explicit config value, or
// min(NumCPU, maxWorkersDefault) when unset.
func NewWorkerPool(threads int, queue *ConnectionQueue, shutdown *atomic.Bool, handle func(*Connection, *arena.Arena)) *WorkerPool {
	n := threads
	if n <= 0 {
		n = runtime.NumCPU()
		if n > maxWorkersDefault {
			n = maxWorkersDefault
		}
	}
	return &WorkerPool{n: n, queue: queue, shutdown: shutdown, handle: handle}
}

// Size reports the worker count.
func (p *WorkerPool) Size() int { return p.n }

// Start launches the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

// Join waits for every worker to exit. Call after the shutdown flag is set
// and the queue is shut down.
func (p *WorkerPool) Join() {
	p.wg.Wait()
}

func (p *WorkerPool) run() {
	defer p.wg.Done()

	// One arena per worker, reused across connections; never shared.
	a := arena.New()

	for {
		c, ok := p.queue.TryPop()
		if !ok {
			if p.shutdown.Load() {
				return
			}
			time.Sleep(idlePollInterval)
			continue
		}
		if p.shutdown.Load() {
			// Draining on shutdown: release the socket, skip serving.
			c.Close()
			continue
		}
		a.Reset()
		p.handle(c, a)
	}
}
