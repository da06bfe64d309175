//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package poller

import "errors"

// NewPoller fails on platforms without a supported readiness backend.
// Startup must refuse to serve rather than fall back to blocking accepts.
func NewPoller() (Poller, error) {
	return nil, errors.New("poller: unsupported platform (need epoll or kqueue)")
}
