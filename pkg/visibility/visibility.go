// Package visibility derives the default-hidden directives for composed
// areas. The rules are a pure function of the composition pass: which half
// of a repeating section faces the user first is decided there, and this
// package only spells out the consequence. Runtime drill-down behaviour that
// reveals hidden members belongs to the rendering collaborator, which can
// swap in its own Assigner.
package visibility

import "github.com/goliatone/go-formport/pkg/compose"

// Directive marks which members of one composed area start hidden. Area is
// the index into the ordered area list the directive was derived from.
type Directive struct {
	Area    int
	Section string
	Hidden  []compose.FragmentRef
}

// Hides reports whether the directive hides the fragment.
func (d Directive) Hides(ref compose.FragmentRef) bool {
	for _, hidden := range d.Hidden {
		if hidden == ref {
			return true
		}
	}
	return false
}

// Assigner produces visibility directives for a composed area list.
type Assigner interface {
	Assign(areas []compose.Area) []Directive
}

// AssignerFunc adapts a function into an Assigner.
type AssignerFunc func(areas []compose.Area) []Directive

// Assign delegates to the underlying function.
func (fn AssignerFunc) Assign(areas []compose.Area) []Directive {
	return fn(areas)
}

// Default returns the classification-based assigner implemented by Assign.
func Default() Assigner {
	return AssignerFunc(Assign)
}

// Assign emits one directive per pair area and none for standalone areas.
// In a top-level section the item fragment is the visible surface, so only
// the list half hides behind it. A nested section is never visible by
// default: both halves hide until the runtime reveals them.
func Assign(areas []compose.Area) []Directive {
	var directives []Directive
	for i, area := range areas {
		if area.Kind != compose.AreaPair {
			continue
		}
		hidden := []compose.FragmentRef{area.List}
		if !area.TopLevel {
			hidden = append(hidden, area.Item)
		}
		directives = append(directives, Directive{Area: i, Section: area.Section, Hidden: hidden})
	}
	return directives
}
