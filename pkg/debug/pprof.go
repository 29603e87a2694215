// Package debug provides instrumentation and profiling tools for capmeter.
package debug

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"
)

// DefaultPprofAddr binds to loopback only: the profiler exposes heap and
// goroutine dumps and has no business on the network.
const DefaultPprofAddr = "localhost:6060"

// StartPprofServer serves pprof endpoints for profiling the polling loop,
// typically alongside a long watch-mode run. The returned stop function
// shuts the server down gracefully.
func StartPprofServer(addr string) (func(), error) {
	if addr == "" {
		addr = DefaultPprofAddr
	}

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	failed := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	// Catch bind errors before reporting the server as up.
	select {
	case err := <-failed:
		return nil, fmt.Errorf("pprof server failed: %w", err)
	case <-time.After(50 * time.Millisecond):
		fmt.Fprintf(defaultTraceWriter(), "pprof listening on http://%s/debug/pprof/\n", addr)
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}

	return stop, nil
}
