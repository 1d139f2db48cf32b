// Package diag collects the per-link and per-symbol problems found while
// building and applying a link table. Callers choose whether problems are
// gathered for later rendering, logged as they happen, or both.
package diag

import (
	"sync"

	charmlog "github.com/charmbracelet/log"

	"github.com/yaklabco/docsplice/internal/logging"
)

// Severity ranks a diagnostic.
type Severity int

// The zero value is not a valid severity; callers that accept a Severity
// option can treat it as "unset" and pick their own default.
const (
	SeverityDebug Severity = iota + 1
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Diagnostic is one reported problem. Context names the doc link or symbol
// path the problem is about; Err carries the underlying cause when there is
// one.
type Diagnostic struct {
	Severity Severity
	Message  string
	Context  string
	Err      error
}

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// Collector is a Sink that accumulates diagnostics with a severity tally.
// Safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
	tally map[Severity]int
}

func NewCollector() *Collector {
	return &Collector{tally: make(map[Severity]int)}
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
	c.tally[d.Severity]++
}

// Diagnostics returns a snapshot of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Count returns how many diagnostics of the given severity were reported.
func (c *Collector) Count(s Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tally[s]
}

// HasErrors reports whether any error-severity diagnostic was seen.
func (c *Collector) HasErrors() bool {
	return c.Count(SeverityError) > 0
}

// Logger is a Sink that forwards diagnostics to a charmbracelet logger.
type Logger struct {
	log *charmlog.Logger
}

func NewLogger(l *charmlog.Logger) *Logger {
	return &Logger{log: l}
}

func (l *Logger) Report(d Diagnostic) {
	args := make([]any, 0, 4)
	if d.Context != "" {
		args = append(args, logging.FieldLink, d.Context)
	}
	if d.Err != nil {
		args = append(args, logging.FieldCause, d.Err)
	}

	switch d.Severity {
	case SeverityDebug:
		l.log.Debug(d.Message, args...)
	case SeverityInfo:
		l.log.Info(d.Message, args...)
	case SeverityWarning:
		l.log.Warn(d.Message, args...)
	default:
		l.log.Error(d.Message, args...)
	}
}

// Tee fans a diagnostic out to several sinks.
type Tee []Sink

func (t Tee) Report(d Diagnostic) {
	for _, sink := range t {
		sink.Report(d)
	}
}
