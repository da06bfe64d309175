package core

import (
	"errors"
	"log/slog"

	"github.com/searchktools/static-server/core/arena"
	httpx "github.com/searchktools/static-server/core/http"
	"github.com/searchktools/static-server/core/response"
	"github.com/searchktools/static-server/core/static"
	"github.com/searchktools/static-server/core/stats"
)

// handleConnection serves one connection to completion: parse, resolve,
// respond, repeated while keep-alive holds. The arena is reset at the top
// of every iteration, so request views never survive into the next one.
func (e *Engine) handleConnection(c *Connection, a *arena.Arena) {
	defer c.Close()

	r := httpx.FDReader{FD: c.FD}
	w := response.FDWriter{FD: c.FD}

	served := false
	for {
		a.Reset()

		req, err := httpx.Parse(r, a)
		if err != nil {
			// A persistent connection gone idle is closed quietly; only a
			// peer that never produced a valid request earns a 400.
			if served && errors.Is(err, httpx.ErrReadTimeout) {
				return
			}
			e.rejectRequest(w, c, err)
			return
		}

		var res static.Resource
		if req.Method == httpx.MethodGet || req.Method == httpx.MethodHead {
			res = e.resolver.Resolve(string(req.Path))
		}

		result, keep, err := e.resp.Respond(w, &req, res, a)
		if err != nil {
			stats.RequestErrors.Inc()
			slog.Debug("response write failed",
				"peer", c.Peer,
				"path", string(req.Path),
				"error", err,
			)
			return
		}

		e.access.Log(req.Method.String(), string(req.Path), result.Status, result.ContentLength, c.Peer)
		stats.ObserveRequest(result.Status, result.ContentLength)
		served = true

		if !keep {
			return
		}
	}
}

// rejectRequest closes out a connection whose request never parsed. A peer
// that disconnected cleanly gets no response and no error count; everything
// else gets a best-effort 400 before the close.
func (e *Engine) rejectRequest(w response.FDWriter, c *Connection, err error) {
	if errors.Is(err, httpx.ErrClosed) {
		return
	}

	stats.RequestErrors.Inc()
	slog.Debug("request rejected", "peer", c.Peer, "error", err)

	result := e.resp.WriteBadRequest(w)
	e.access.Log("OTHER", "", result.Status, result.ContentLength, c.Peer)
	stats.ObserveRequest(result.Status, result.ContentLength)
}
