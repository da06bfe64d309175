package core

import (
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/searchktools/static-server/config"
	"github.com/searchktools/static-server/core/poller"
	"github.com/searchktools/static-server/core/response"
	"github.com/searchktools/static-server/core/static"
	"github.com/searchktools/static-server/core/stats"
)

// AccessLogger receives one line per completed request, fire-and-forget.
// Implementations must never block response delivery.
type AccessLogger interface {
	Log(method, path string, status int, contentLength int64, peer string)
}

type nopAccessLogger struct{}

func (nopAccessLogger) Log(string, string, int, int64, string) {}

// Engine owns the listening socket, the poller, the connection queue and
// the worker pool.
type Engine struct {
	cfg      *config.Config
	lfd      int
	addr     string
	poll     poller.Poller
	queue    *ConnectionQueue
	workers  *WorkerPool
	resolver *static.Resolver
	resp     *response.Engine
	access   AccessLogger
	shutdown atomic.Bool
}

// New creates the listening socket, registers it with a fresh poller and
// sizes the worker pool. Every failure here is a startup failure: the
// caller reports it and refuses to serve.
func New(cfg *config.Config, access AccessLogger) (*Engine, error) {
	if access == nil {
		access = nopAccessLogger{}
	}

	e := &Engine{
		cfg:   cfg,
		lfd:   -1,
		queue: NewConnectionQueue(),
		resolver: &static.Resolver{
			Root:       cfg.Root,
			SinglePage: cfg.SinglePage,
			NoDirlist:  cfg.NoDirlist,
		},
		resp: response.New(response.Options{
			Gzip:      cfg.Gzip,
			CORS:      cfg.CORS,
			KeepAlive: cfg.KeepAlive,
		}),
		access: access,
	}
	e.workers = NewWorkerPool(cfg.Threads, e.queue, &e.shutdown, e.handleConnection)

	if err := e.listen(); err != nil {
		return nil, err
	}

	p, err := poller.NewPoller()
	if err != nil {
		e.closeListener()
		return nil, fmt.Errorf("create poller: %w", err)
	}
	if err := p.Add(e.lfd); err != nil {
		p.Close()
		e.closeListener()
		return nil, fmt.Errorf("register listener with poller: %w", err)
	}
	e.poll = p
	return e, nil
}

// Addr reports the bound address, useful when the configured port was 0.
func (e *Engine) Addr() string { return e.addr }

// Workers reports the worker pool size.
func (e *Engine) Workers() int { return e.workers.Size() }

func (e *Engine) listen() error {
	bind := e.cfg.Bind
	if bind == "" {
		bind = "0.0.0.0"
	}
	ip := net.ParseIP(bind)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("bind address %q is not a valid IPv4 address", bind)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return fmt.Errorf("create socket: %w", err)
	}
	unix.CloseOnExec(fd)

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return fmt.Errorf("set SO_REUSEADDR: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return fmt.Errorf("set listener nonblocking: %w", err)
	}

	sa := &unix.SockaddrInet4{Port: int(e.cfg.Port)}
	copy(sa.Addr[:], ip.To4())
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return fmt.Errorf("bind %s:%d: %w", bind, e.cfg.Port, err)
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		unix.Close(fd)
		return fmt.Errorf("listen on %s:%d: %w", bind, e.cfg.Port, err)
	}

	bound, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return fmt.Errorf("getsockname: %w", err)
	}
	e.lfd = fd
	e.addr = peerString(bound)
	return nil
}

func (e *Engine) closeListener() {
	if e.lfd >= 0 {
		unix.Close(e.lfd)
		e.lfd = -1
	}
}

// Serve starts the workers and runs the acceptor loop in the calling
// goroutine until Shutdown. The listener is registered edge-triggered, so
// each readiness event is drained with accepts until EAGAIN.
func (e *Engine) Serve() error {
	e.workers.Start()

	slog.Info("serving",
		"addr", e.addr,
		"root", e.cfg.Root,
		"workers", e.workers.Size(),
		"keepalive", e.cfg.KeepAlive,
		"gzip", e.cfg.Gzip,
	)

	for !e.shutdown.Load() {
		fds, err := e.poll.Wait(pollTimeoutMillis)
		if err != nil {
			slog.Error("poller wait failed", "error", err)
			continue
		}
		for _, fd := range fds {
			if fd == e.lfd {
				e.acceptPending()
			}
		}
	}

	// Stop admitting, wake everyone, wait for the workers to finish.
	e.queue.Shutdown()
	e.workers.Join()
	e.poll.Close()
	e.closeListener()
	return nil
}

// Shutdown flips the process-wide flag; the acceptor observes it within a
// poll timeout and the queue broadcast wakes blocked workers.
func (e *Engine) Shutdown() {
	if e.shutdown.CompareAndSwap(false, true) {
		e.queue.Shutdown()
	}
}

// acceptPending accepts until the listener reports would-block. A single
// failed accept is logged and skipped, never fatal.
func (e *Engine) acceptPending() {
	for {
		nfd, sa, err := unix.Accept(e.lfd)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			if err == unix.EINTR || err == unix.ECONNABORTED {
				continue
			}
			slog.Warn("accept failed", "error", err)
			stats.ConnectionsDropped.Inc()
			return
		}

		if err := e.prepareSocket(nfd); err != nil {
			slog.Warn("socket setup failed", "error", err)
			unix.Close(nfd)
			stats.ConnectionsDropped.Inc()
			continue
		}

		conn := &Connection{FD: nfd, Peer: peerString(sa)}
		if err := e.queue.Push(conn); err != nil {
			conn.Close()
			stats.ConnectionsDropped.Inc()
			continue
		}
		stats.ConnectionsAccepted.Inc()
	}
}

// prepareSocket configures an accepted socket: nonblocking for the bounded
// retry loops, Nagle off, TCP keepalive on, and coarse kernel timeouts to
// bound a stalled peer.
func (e *Engine) prepareSocket(fd int) error {
	if err := unix.SetNonblock(fd, true); err != nil {
		return err
	}
	unix.CloseOnExec(fd)

	if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
		return err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); err != nil {
		return err
	}

	tv := unix.NsecToTimeval(socketTimeout.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return err
	}
	return unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_SNDTIMEO, &tv)
}
