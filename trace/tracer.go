package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Tracer provides debug diagnostics and dispatch tracing.
// A nil *Tracer is valid and writes nothing.
type Tracer struct {
	enabled bool // dispatch tracing
	debug   bool // "<Kind>: <message>" diagnostics
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// New creates a tracer. A nil writer means os.Stderr.
func New(enabled, debug bool, filters []string, writer io.Writer) *Tracer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Tracer{
		enabled: enabled,
		debug:   debug,
		filters: filters,
		writer:  writer,
	}
}

// Init initializes the global tracer
func Init(enabled, debug bool, filters []string, writer io.Writer) {
	globalTracer = New(enabled, debug, filters, writer)
}

// Global returns the global tracer (nil until Init is called)
func Global() *Tracer {
	return globalTracer
}

// IsEnabled returns whether dispatch tracing is enabled
func (t *Tracer) IsEnabled() bool {
	return t != nil && t.enabled
}

// IsDebug returns whether diagnostics are written
func (t *Tracer) IsDebug() bool {
	return t != nil && t.debug
}

// matchesFilter checks if a method name matches any of the filter patterns
func (t *Tracer) matchesFilter(method string) bool {
	if len(t.filters) == 0 {
		return true
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, method); matched {
			return true
		}
	}
	return false
}

func (t *Tracer) traces(method string) bool {
	return t != nil && t.enabled && t.matchesFilter(method)
}

// Diagnostic writes "<Kind>: <message>" when debug is on
func (t *Tracer) Diagnostic(kind, message string) {
	if !t.IsDebug() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "%s: %s\n", kind, message)
}

// Error writes a diagnostic for an error value. The error's own text is
// expected to already carry its kind prefix.
func (t *Tracer) Error(err error) {
	if err == nil || !t.IsDebug() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.writer, err.Error())
}

// Call logs a method invocation
func (t *Tracer) Call(class, method, this string, args []any) {
	if !t.traces(method) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] CALL %s.%s this=%s args=[%s]\n",
		class, method, this, formatArgs(args))
}

// Super logs a Super hop from the owner to the ancestor that supplied the next implementation
func (t *Tracer) Super(owner, method, target string) {
	if !t.traces(method) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if target == "" {
		fmt.Fprintf(t.writer, "[TRACE] SUPER %s.%s -> (end of chain)\n", owner, method)
	} else {
		fmt.Fprintf(t.writer, "[TRACE] SUPER %s.%s -> %s\n", owner, method, target)
	}
}

// Return logs a method return value
func (t *Tracer) Return(class, method string, result any) {
	if !t.traces(method) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] RETURN %s.%s => %s\n", class, method, formatValue(result))
}

// Failure logs a method that returned an error
func (t *Tracer) Failure(class, method string, err error) {
	if !t.traces(method) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] ERROR %s.%s %v\n", class, method, err)
}

func formatArgs(args []any) string {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = formatValue(arg)
	}
	return strings.Join(strs, ", ")
}

func formatValue(v any) string {
	if v == nil {
		return "nil"
	}
	s := fmt.Sprintf("%v", v)
	if str, ok := v.(string); ok {
		s = fmt.Sprintf("%q", str)
	}
	// Truncate long values for readability
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}

// Global convenience functions

// Diagnostic writes a diagnostic using the global tracer
func Diagnostic(kind, message string) {
	globalTracer.Diagnostic(kind, message)
}
