// Package splice applies byte-range text replacements in reverse document
// order. It exists so that a single pass over a token stream from back to
// front can queue edits without ever invalidating the offsets of edits that
// are still to come.
package splice

import "fmt"

// Replacer replaces byte ranges of a string.
//
// Ranges must be supplied back to front and must not overlap. Replacer
// panics when ranges arrive in the wrong order or overlap: its callers
// derive edits from their own reverse traversal, so a violation is a bug in
// the caller, not an input condition.
//
// Internally the original string shrinks from the right while replacement
// and tail fragments accumulate; Finish stitches the fragments back together
// in one allocation.
type Replacer struct {
	rest   string
	chunks []string
}

// New creates a Replacer over s.
func New(s string) *Replacer {
	return &Replacer{rest: s}
}

// Replace replaces the bytes in [start, end) with text.
func (r *Replacer) Replace(start, end int, text string) {
	if start > end {
		panic(fmt.Sprintf("splice: range start %d exceeds end %d", start, end))
	}
	if end > len(r.rest) {
		panic(fmt.Sprintf("splice: range end %d exceeds unedited length %d (edits must be applied back to front and must not overlap)", end, len(r.rest)))
	}

	if tail := r.rest[end:]; tail != "" {
		r.chunks = append(r.chunks, tail)
	}
	if text != "" {
		r.chunks = append(r.chunks, text)
	}
	r.rest = r.rest[:start]
}

// Insert inserts text at byte offset at.
func (r *Replacer) Insert(at int, text string) {
	r.Replace(at, at, text)
}

// Remove deletes the bytes in [start, end).
func (r *Replacer) Remove(start, end int) {
	r.Replace(start, end, "")
}

// Rest returns the prefix of the original string that no edit has touched
// yet.
func (r *Replacer) Rest() string {
	return r.rest
}

// Finish returns the edited string.
func (r *Replacer) Finish() string {
	n := len(r.rest)
	for _, c := range r.chunks {
		n += len(c)
	}

	out := make([]byte, 0, n)
	out = append(out, r.rest...)
	for i := len(r.chunks) - 1; i >= 0; i-- {
		out = append(out, r.chunks[i]...)
	}
	return string(out)
}
