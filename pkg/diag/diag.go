// Package diag carries the structured diagnostic stream the migration core
// emits while transforming legacy layouts. Every event is non-fatal: the
// pipeline prefers best-effort placement over aborting on imperfect input,
// and leaves it to the surrounding orchestration to decide whether
// accumulated warnings should block anything downstream.
//
// Sinks are injected, never registered globally, so each invocation can be
// observed (and tested) in isolation.
package diag

import "fmt"

// Kind identifies the category of a diagnostic event.
type Kind string

const (
	// KindMalformedPositionToken marks a grid position token whose row could
	// not be parsed; the control was placed at the sentinel last row.
	KindMalformedPositionToken Kind = "malformed_position_token"

	// KindOrphanedControl marks a control whose row fell outside the
	// compacted row map; the control was dropped from placement.
	KindOrphanedControl Kind = "orphaned_control"

	// KindUnmatchedPair marks a list or item fragment whose counterpart is
	// missing; the fragment was excluded from composite grouping.
	KindUnmatchedPair Kind = "unmatched_pair"

	// KindUnresolvedOrderKey marks a fragment pair with no derivable
	// position; it was appended after all positioned entries.
	KindUnresolvedOrderKey Kind = "unresolved_order_key"

	// KindSuppressedColumnConflict marks a control found in a column that a
	// wide neighbour already merged; the control was attached to the owning
	// cell instead of its own.
	KindSuppressedColumnConflict Kind = "suppressed_column_conflict"

	// KindSectionRowUnmapped marks a section marker whose start or end row
	// was absent from the compaction map and was left untouched.
	KindSectionRowUnmapped Kind = "section_row_unmapped"
)

// Event is a single diagnostic occurrence. Only the fields relevant to the
// Kind are populated; the zero value of the rest is meaningful absence.
type Event struct {
	Kind     Kind
	Fragment string
	Control  string
	Section  string
	Token    string
	Row      int
	Column   int
	Detail   string
}

// String renders a short human-readable summary, used by log sinks and
// migration reports.
func (e Event) String() string {
	msg := string(e.Kind)
	if e.Detail != "" {
		msg = e.Detail
	}
	switch {
	case e.Control != "" && e.Fragment != "":
		return fmt.Sprintf("%s (control %s, fragment %s)", msg, e.Control, e.Fragment)
	case e.Section != "" && e.Fragment != "":
		return fmt.Sprintf("%s (section %s, fragment %s)", msg, e.Section, e.Fragment)
	case e.Section != "":
		return fmt.Sprintf("%s (section %s)", msg, e.Section)
	case e.Fragment != "":
		return fmt.Sprintf("%s (fragment %s)", msg, e.Fragment)
	}
	return msg
}

// Sink receives diagnostic events. Implementations must tolerate concurrent
// use when shared across migrations; the core itself emits from a single
// goroutine per invocation.
type Sink interface {
	Emit(Event)
}

// Emit forwards the event to the sink, treating nil as a discard. Core
// packages call this helper so callers can pass a nil Sink safely.
func Emit(s Sink, e Event) {
	if s == nil {
		return
	}
	s.Emit(e)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(Event)

// Emit delegates to the underlying function.
func (fn SinkFunc) Emit(e Event) {
	fn(e)
}

type noopSink struct{}

func (noopSink) Emit(Event) {}

// Noop returns a Sink that discards every event.
func Noop() Sink {
	return noopSink{}
}

// Tee fans events out to every non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return SinkFunc(func(e Event) {
		for _, s := range kept {
			s.Emit(e)
		}
	})
}

// WithFragment returns a sink that stamps the fragment name onto events that
// do not carry one yet. The layout stages emit fragment-agnostic events; the
// orchestrator wraps their sink per fragment.
func WithFragment(s Sink, fragment string) Sink {
	if s == nil {
		return Noop()
	}
	return SinkFunc(func(e Event) {
		if e.Fragment == "" {
			e.Fragment = fragment
		}
		s.Emit(e)
	})
}
