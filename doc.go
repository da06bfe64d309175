/*
Package staticserver provides a high-throughput, low-allocation static file
server built directly on OS readiness notification.

Static-Server serves a single filesystem root over an HTTP/1.1 subset
(GET, HEAD, OPTIONS) and is optimized for minimal memory allocation per
request: every worker owns a reusable arena that is reset in bulk between
requests instead of freeing individual objects.

Architecture

  - A single acceptor thread polls the listening socket through epoll
    (Linux) or kqueue (macOS/BSD), registered in edge-triggered mode, and
    drains accept(2) to EAGAIN on every readiness event.
  - Accepted connections are pushed into a mutex/cond FIFO queue; the
    socket backlog provides natural admission control.
  - A fixed pool of workers pulls connections from the queue and runs the
    parse -> resolve -> respond pipeline to completion, looping while the
    client requests keep-alive.
  - Responses support byte ranges (206), on-the-fly gzip for textual
    content, ETag/Cache-Control validators, CORS preflight, and SPA
    fallback for client-side routed applications.

Quick Start

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
	    log.Fatal(err)
	}
	application, err := app.New(cfg)
	if err != nil {
	    log.Fatal(err)
	}
	if err := application.Run(); err != nil {
	    log.Fatal(err)
	}

Modules

  - app: application lifecycle, signals, browser launch, root watcher
  - config: flag and JSON file configuration
  - logging: slog setup and the per-request access logger
  - core: acceptor, connection queue, worker pool
  - core/poller: I/O multiplexing (epoll/kqueue)
  - core/arena: per-worker bump allocator with bulk reset
  - core/http: zero-copy HTTP/1.1 request parsing
  - core/static: path resolution (root jail, SPA fallback, index documents)
  - core/response: status/header/body emission, Range, gzip, sendfile
  - core/mime: extension to content-type registry
  - core/stats: Prometheus counters for served traffic

For more information, see https://github.com/searchktools/static-server
*/
package staticserver
