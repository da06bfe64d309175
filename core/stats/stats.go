// Package stats exposes Prometheus counters for served traffic.
//
// Counters are created once at init and the per-status series are
// pre-resolved into a read-only map, so the hot path performs a single
// atomic add without label lookups or allocation.
package stats

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionsAccepted counts connections handed to the queue.
	ConnectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "staticserver",
		Subsystem: "acceptor",
		Name:      "connections_total",
		Help:      "Connections accepted and queued.",
	})

	// ConnectionsDropped counts accepts that failed or could not be queued.
	ConnectionsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "staticserver",
		Subsystem: "acceptor",
		Name:      "connections_dropped_total",
		Help:      "Connections closed before entering the queue.",
	})

	// QueueDepth tracks connections waiting for a worker.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "staticserver",
		Subsystem: "queue",
		Name:      "depth",
		Help:      "Connections currently queued.",
	})

	// BytesWritten counts declared response body bytes.
	BytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "staticserver",
		Subsystem: "responses",
		Name:      "body_bytes_total",
		Help:      "Response body bytes declared across all responses.",
	})

	// RequestErrors counts requests that aborted their connection.
	RequestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "staticserver",
		Subsystem: "requests",
		Name:      "errors_total",
		Help:      "Requests whose connection was aborted by an error.",
	})

	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staticserver",
		Subsystem: "requests",
		Name:      "total",
		Help:      "Completed requests by response status.",
	}, []string{"status"})

	// byStatus is populated once at init and read-only afterwards.
	byStatus = map[int]prometheus.Counter{}
)

func init() {
	for _, s := range []int{200, 206, 400, 403, 404, 405, 500} {
		byStatus[s] = requests.WithLabelValues(strconv.Itoa(s))
	}
}

// ObserveRequest records one completed request.
func ObserveRequest(status int, contentLength int64) {
	if c, ok := byStatus[status]; ok {
		c.Inc()
	} else {
		requests.WithLabelValues(strconv.Itoa(status)).Inc()
	}
	if contentLength > 0 {
		BytesWritten.Add(float64(contentLength))
	}
}
