package ui

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Tracker renders one summary line per scanned package with a running
// done/total counter. Scan workers call it concurrently; the counter and the
// writer are guarded independently so lines never interleave.
type Tracker struct {
	out   io.Writer
	total int
	done  atomic.Int32
	mu    sync.Mutex
}

// NewTracker creates a tracker expecting total package scans.
func NewTracker(out io.Writer, total int) *Tracker {
	return &Tracker{out: out, total: total}
}

// Package records one finished scan and prints its summary line.
func (t *Tracker) Package(name string, files, deps int) {
	n := int(t.done.Add(1))
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.out, "[%d/%d] %s: %d files, %d workspace deps\n",
		n, t.total, name, files, deps)
}
