package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// TraceLogger provides per-edge trace logging for capture and computation
// steps.
type TraceLogger struct {
	mu      sync.Mutex
	writer  io.Writer
	enabled bool
}

// NewTraceLogger creates a trace logger writing to the given writer.
func NewTraceLogger(w io.Writer) *TraceLogger {
	return &TraceLogger{
		writer:  w,
		enabled: true,
	}
}

// Log records a trace entry for a source step.
func (t *TraceLogger) Log(source, step, detail string) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE %s] %s: %s - %s\n",
		time.Now().Format("15:04:05.000000"), source, step, detail)
}

// LogEdge records a captured edge with its raw counter value and the
// overflow flag state at read time.
func (t *TraceLogger) LogEdge(source string, timestamp uint32, overflow bool, periodUS uint32) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE %s] %s: edge=%d overflow=%v period=%dus\n",
		time.Now().Format("15:04:05.000000"), source, timestamp, overflow, periodUS)
}

// defaultTraceWriter returns stderr for trace output.
func defaultTraceWriter() io.Writer {
	return os.Stderr
}
