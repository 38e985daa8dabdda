// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"maps"
	"mime"
	"net/http"
	"sync"
	"time"
)

// Budget picks the time a request may take.
type Budget func(r *http.Request) time.Duration

// UploadBudget grants multipart requests the upload budget and every other
// request the regular one.
func UploadBudget(regular, upload time.Duration) Budget {
	return func(r *http.Request) time.Duration {
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err == nil && mt == "multipart/form-data" {
			return upload
		}
		return regular
	}
}

// Timeout cancels the request context after d and answers 503 with a JSON
// error if the handler has not started its response by then.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return TimeoutBudget(func(*http.Request) time.Duration { return d })
}

// TimeoutBudget is Timeout with a per-request duration. The connection read
// and write deadlines are moved to match, so budgets longer than the server
// timeouts hold for the whole body.
//
// Output of a handler that outlives its budget is discarded. A response that
// had already started when the budget ran out is cut short.
func TimeoutBudget(budget Budget) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := budget(r)
			deadline := time.Now().Add(d)
			rc := http.NewResponseController(w)
			_ = rc.SetReadDeadline(deadline)
			_ = rc.SetWriteDeadline(deadline.Add(5 * time.Second))

			ctx, cancel := context.WithDeadline(r.Context(), deadline)
			defer cancel()

			gw := newGuardedWriter(w)
			finished := make(chan any, 1)
			go func() {
				defer func() { finished <- recover() }()
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case p := <-finished:
				if p != nil {
					panic(p)
				}
				gw.finish()
			case <-ctx.Done():
				unstarted := gw.expire()
				if unstarted && errors.Is(ctx.Err(), context.DeadlineExceeded) {
					WriteError(w, http.StatusServiceUnavailable, "Request timeout")
				}
			}
		})
	}
}

// guardedWriter forwards a handler's response until it expires. Headers are
// staged in a private map and reach the client only when the response starts
// in time, so a late handler never touches the real header map.
type guardedWriter struct {
	w      http.ResponseWriter
	header http.Header

	mu      sync.Mutex
	started bool
	expired bool
}

func newGuardedWriter(w http.ResponseWriter) *guardedWriter {
	return &guardedWriter{w: w, header: w.Header().Clone()}
}

func (g *guardedWriter) Header() http.Header { return g.header }

func (g *guardedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.start(code)
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.start(http.StatusOK) {
		return 0, http.ErrHandlerTimeout
	}
	return g.w.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (g *guardedWriter) Unwrap() http.ResponseWriter { return g.w }

// start commits the staged headers and status once. It reports whether
// output may still be forwarded. Caller holds mu.
func (g *guardedWriter) start(code int) bool {
	if g.expired {
		return false
	}
	if !g.started {
		g.started = true
		dst := g.w.Header()
		clear(dst)
		maps.Copy(dst, g.header)
		g.w.WriteHeader(code)
	}
	return true
}

// finish commits staged headers for a handler that returned without writing.
func (g *guardedWriter) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.start(http.StatusOK)
}

// expire stops forwarding. It reports whether the response had not started,
// in which case the caller owns the underlying writer.
func (g *guardedWriter) expire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expired = true
	return !g.started
}
