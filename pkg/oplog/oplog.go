// Package oplog records the outcome of a file operation as an ordered list of
// human-readable entries.
//
// A [Log] is the only result of every operation in shelf. Each [Entry] has a
// [Kind] that renders as a bracketed prefix, so callers that need machine
// consumption can either parse the text lines or use the structured YAML and
// JSON renderings.
package oplog

import (
	"fmt"
	"strings"
)

// Kind classifies a log entry.
type Kind string

const (
	KindInfo    Kind = "INFO"
	KindError   Kind = "ERROR"
	KindPreview Kind = "PREVIEW"
	KindDone    Kind = "OK"
	KindFailed  Kind = "FAIL"
	KindSkip    Kind = "SKIP"
	KindItem    Kind = "ITEM"
)

// Entry is a single outcome line.
type Entry struct {
	Kind    Kind   `json:"kind"             yaml:"kind"`
	Message string `json:"message"          yaml:"message"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	Target  string `json:"target,omitempty" yaml:"target,omitempty"`
}

// String renders the entry as a text line. Items render as list bullets,
// everything else with a bracketed kind prefix.
func (e Entry) String() string {
	if e.Kind == KindItem {
		return "- " + e.Message
	}

	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Log is an append-only, ordered sequence of entries.
type Log struct {
	entries []Entry
}

// New creates an empty [Log].
func New() *Log {
	return &Log{}
}

// Add appends an entry.
func (l *Log) Add(e Entry) {
	l.entries = append(l.entries, e)
}

func (l *Log) addf(kind Kind, format string, args ...any) {
	l.Add(Entry{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (l *Log) Infof(format string, args ...any)  { l.addf(KindInfo, format, args...) }
func (l *Log) Errorf(format string, args ...any) { l.addf(KindError, format, args...) }
func (l *Log) Skipf(format string, args ...any)  { l.addf(KindSkip, format, args...) }
func (l *Log) Item(name string)                  { l.addf(KindItem, "%s", name) }

// Preview records an action that would be taken.
func (l *Log) Preview(msg, source, target string) {
	l.Add(Entry{Kind: KindPreview, Message: msg, Source: source, Target: target})
}

// Done records an action that was taken.
func (l *Log) Done(msg, source, target string) {
	l.Add(Entry{Kind: KindDone, Message: msg, Source: source, Target: target})
}

// Failed records an action that was attempted and did not succeed.
func (l *Log) Failed(msg, source, target string) {
	l.Add(Entry{Kind: KindFailed, Message: msg, Source: source, Target: target})
}

// Append copies all entries of other onto the end of l.
func (l *Log) Append(other *Log) {
	if other == nil {
		return
	}

	l.entries = append(l.entries, other.entries...)
}

// Entries returns a copy of the entries in order.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Count returns the number of entries of the given kind.
func (l *Log) Count(kind Kind) int {
	n := 0
	for _, e := range l.entries {
		if e.Kind == kind {
			n++
		}
	}

	return n
}

// Aborted reports whether the log holds an error and no per-item outcome,
// meaning the operation could not run at all.
func (l *Log) Aborted() bool {
	if l.Count(KindError) == 0 {
		return false
	}

	for _, e := range l.entries {
		switch e.Kind {
		case KindPreview, KindDone, KindFailed, KindItem:
			return false
		case KindInfo, KindError, KindSkip:
		}
	}

	return true
}

// Lines renders every entry as a text line.
func (l *Log) Lines() []string {
	lines := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		lines = append(lines, e.String())
	}

	return lines
}

// String renders the log as newline-separated text lines.
func (l *Log) String() string {
	return strings.Join(l.Lines(), "\n")
}
