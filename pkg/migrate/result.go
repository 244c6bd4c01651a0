package migrate

import (
	"github.com/goliatone/go-formport/pkg/compose"
	"github.com/goliatone/go-formport/pkg/diag"
	"github.com/goliatone/go-formport/pkg/formdef"
	"github.com/goliatone/go-formport/pkg/layout"
	"github.com/goliatone/go-formport/pkg/visibility"
)

// FragmentResult is the migrated layout for one fragment: its dense cell
// matrix, the title extracted from its leading label row (when one was), the
// section markers rewritten into the final row space, and the widget
// resolved for every control.
type FragmentResult struct {
	Name     string
	Role     formdef.Role
	Title    string
	Table    layout.Table
	Sections []layout.Marker
	Widgets  map[string]string
}

// Result is the complete outcome of migrating one legacy definition. Areas
// lists the composed fragments in final display order; Directives carries the
// default-hidden members for pair areas; Events holds every diagnostic the
// run emitted, in emission order. A Result is self-contained: it shares no
// state with the Migrator that produced it.
type Result struct {
	RunID      string
	Form       string
	Title      string
	Fragments  []FragmentResult
	Areas      []compose.Area
	Directives []visibility.Directive
	Events     []diag.Event
	Stats      Stats
}

// Tables returns the assembled cell matrix per fragment name.
func (r *Result) Tables() map[string]layout.Table {
	if r == nil {
		return nil
	}
	out := make(map[string]layout.Table, len(r.Fragments))
	for _, frag := range r.Fragments {
		out[frag.Name] = frag.Table
	}
	return out
}

// Fragment returns the named fragment result.
func (r *Result) Fragment(name string) (FragmentResult, bool) {
	if r == nil {
		return FragmentResult{}, false
	}
	for _, frag := range r.Fragments {
		if frag.Name == name {
			return frag, true
		}
	}
	return FragmentResult{}, false
}

// EventsOf returns the run's diagnostics of one kind, in emission order.
func (r *Result) EventsOf(kind diag.Kind) []diag.Event {
	if r == nil {
		return nil
	}
	var out []diag.Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Clean reports whether the run finished without diagnostics.
func (r *Result) Clean() bool {
	return r != nil && len(r.Events) == 0
}

// Stats summarises a run for reports and logs.
type Stats struct {
	Fragments int
	Controls  int
	Areas     int
	Pairs     int
	Unmatched int
	Events    map[diag.Kind]int
}

func tallyEvents(events []diag.Event) map[diag.Kind]int {
	if len(events) == 0 {
		return nil
	}
	out := make(map[diag.Kind]int, len(events))
	for _, e := range events {
		out[e.Kind]++
	}
	return out
}
