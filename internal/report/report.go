// Package report implements the logger surface the pipeline emits progress
// and diagnostics through. It is observability only: nothing in the core
// changes behavior based on what the reporter does with a message.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	phaseStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var noColor bool

// ForceNoColor disables styled output globally.
func ForceNoColor() {
	noColor = true
}

func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// Reporter writes phase, info, warning, error, and debug messages to a
// single writer and accumulates every warning for retrieval after the run.
// It is safe for use from concurrent scan workers.
type Reporter struct {
	mu       sync.Mutex
	out      io.Writer
	verbose  bool
	warnings []string
}

// New creates a reporter writing to out. Debug messages are dropped unless
// verbose is set.
func New(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

// Phase announces the start of a pipeline stage.
func (r *Reporter) Phase(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, render(phaseStyle, "==> "+name))
}

// Info reports a routine message.
func (r *Reporter) Info(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// Warn reports a recoverable problem and records it in the accumulator.
func (r *Reporter) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
	_, _ = fmt.Fprintln(r.out, render(warnStyle, "warning: "+msg))
}

// Error reports a fatal problem. The caller still owns failure propagation.
func (r *Reporter) Error(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, render(errStyle, "error: "+fmt.Sprintf(format, args...)))
}

// Debug reports a message only when the reporter is verbose.
func (r *Reporter) Debug(format string, args ...any) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, render(debugStyle, fmt.Sprintf(format, args...)))
}

// Warnings returns a copy of every warning recorded so far.
func (r *Reporter) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.warnings))
	copy(out, r.warnings)
	return out
}
