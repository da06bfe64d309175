// Package core wires the acceptor, connection queue and worker pool into
// the request-processing pipeline.
package core

import (
	"errors"
	"time"
)

const (
	// pollTimeoutMillis keeps poller waits short so the shutdown flag is
	// observed promptly instead of blocking indefinitely.
	pollTimeoutMillis = 50

	// idlePollInterval is how long a worker sleeps when the queue is
	// empty before polling it again.
	idlePollInterval = 100 * time.Microsecond

	// maxWorkersDefault caps the automatic worker count.
	maxWorkersDefault = 8

	listenBacklog = 1024

	// socketTimeout bounds a stalled peer's impact on a worker; applied
	// to accepted sockets, not the listener.
	socketTimeout = 5 * time.Second
)

var (
	// ErrQueueClosed is returned by Push after Shutdown.
	ErrQueueClosed = errors.New("core: connection queue is shut down")
)
