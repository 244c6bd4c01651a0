// Package widgets resolves legacy control types to target-platform widget
// names. The registry also owns the wide/label classification of legacy
// types, so the layout passes and the widget mapping read from one table.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formport/pkg/formdef"
	"github.com/goliatone/go-formport/pkg/layout"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetRichText = "richtext"
	WidgetToggle   = "toggle"
	WidgetSelect   = "select"
	WidgetChips    = "chips"
	WidgetDate     = "date"
	WidgetNumber   = "number"
	WidgetTable    = "table"
	WidgetStatic   = "static"
)

// Matcher decides whether a widget should handle the supplied control.
type Matcher func(control formdef.Control) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget names for legacy controls based on explicit hints
// or registered matchers. Higher priority wins; ties fall back to
// registration order. The registry is safe for concurrent readers once
// configured.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
	wide  []string
	label []string
}

// NewRegistry constructs a registry with the built-in legacy-type matchers
// and classifications registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// MarkWide classifies legacy control types as column-spanning. Wide controls
// are the ones the span resolver scans blocking columns for.
func (r *Registry) MarkWide(types ...string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wide = append(r.wide, types...)
}

// MarkLabel classifies legacy control types as labels. Label controls never
// block a span when they caption a later control of the same name, and a
// lone row-1 label is the title-extraction candidate.
func (r *Registry) MarkLabel(types ...string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.label = append(r.label, types...)
}

// WideTypes returns a fresh set of the wide-classified types. Each call
// builds a new set so callers can hold it across an invocation without
// observing later registrations.
func (r *Registry) WideTypes() layout.TypeSet {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return layout.NewTypeSet(r.wide...)
}

// LabelTypes returns a fresh set of the label-classified types.
func (r *Registry) LabelTypes() layout.TypeSet {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return layout.NewTypeSet(r.label...)
}

// Resolve returns the widget name for a control. An explicit
// Metadata["widget"] hint is honoured before matcher evaluation.
func (r *Registry) Resolve(control formdef.Control) (string, bool) {
	if explicit := explicitWidget(control); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(control) {
			return entry.name, true
		}
	}
	return "", false
}

// Widget resolves a control with the plain-text fallback applied: every
// control maps to something, unknown legacy types become text inputs.
func (r *Registry) Widget(control formdef.Control) string {
	if name, ok := r.Resolve(control); ok {
		return name
	}
	return WidgetText
}

func explicitWidget(control formdef.Control) string {
	if control.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(control.Metadata["widget"])
}

// typeIs builds a matcher that accepts the listed legacy type names,
// compared case-insensitively.
func typeIs(types ...string) Matcher {
	set := layout.NewTypeSet(types...)
	return func(control formdef.Control) bool {
		return set.Has(control.Type)
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, typeIs("checkbox", "boolean", "yesno"))
	r.Register(WidgetSelect, 80, typeIs("combo", "combobox", "dropdown", "lookup", "radiogroup"))
	r.Register(WidgetChips, 75, typeIs("multiselect", "checklist"))
	r.Register(WidgetDate, 70, typeIs("date", "datetime", "time"))
	r.Register(WidgetNumber, 60, typeIs("number", "numeric", "currency", "integer"))
	r.Register(WidgetRichText, 50, typeIs("richtext"))
	r.Register(WidgetTextarea, 45, typeIs("memo", "multiline"))
	r.Register(WidgetTable, 40, typeIs("grid", "table"))
	r.Register(WidgetStatic, 30, typeIs("label", "statictext"))

	r.MarkWide("richtext", "memo", "grid")
	r.MarkLabel("label", "statictext")
}
