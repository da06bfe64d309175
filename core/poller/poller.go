// Package poller abstracts OS readiness notification (epoll on Linux,
// kqueue on macOS and the BSDs).
package poller

// Poller is the I/O multiplexing interface.
//
// Descriptors are registered in edge-triggered mode: a readiness event
// fires once per state transition, not once per pending unit of work.
// After Wait reports a descriptor ready, the caller MUST drain it to
// exhaustion (for a listening socket, accept(2) in a loop until EAGAIN);
// connections that arrive between the event and the drain produce no
// further notification. This is a correctness requirement of the
// interface, not an optimization.
type Poller interface {
	// Add registers fd for read-readiness events, edge-triggered.
	Add(fd int) error
	// Remove deregisters fd.
	Remove(fd int) error
	// Wait blocks for up to timeout milliseconds and returns the ready
	// descriptors. A nil slice means the wait timed out. Interrupted
	// waits (EINTR) are reported as a timeout, not an error.
	Wait(timeout int) ([]int, error)
	// Close releases the poller descriptor.
	Close() error
}
