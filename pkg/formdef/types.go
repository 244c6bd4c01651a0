package formdef

import (
	"errors"
	"fmt"
)

// Role classifies what a fragment renders as. Standalone fragments are plain
// sections; list and item fragments are the two halves of a repeating
// section, composed downstream into a single area.
type Role string

const (
	RoleStandalone Role = "standalone"
	RoleList       Role = "list"
	RoleItem       Role = "item"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStandalone, RoleList, RoleItem:
		return true
	}
	return false
}

// MarkerKind classifies a section marker.
type MarkerKind string

const (
	MarkerRepeating MarkerKind = "repeating"
	MarkerStatic    MarkerKind = "static"
)

// Control is one legacy control record as authored in the source document.
// Position holds the raw grid token ("3B"); decoding happens in the layout
// stage so intake keeps exactly what the author wrote.
type Control struct {
	ID        string
	Type      string
	Name      string
	Label     string
	Position  string
	Section   string
	Repeating string
	Metadata  map[string]string
}

// Clone returns a deep copy of the control.
func (c Control) Clone() Control {
	cloned := c
	if len(c.Metadata) > 0 {
		cloned.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			cloned.Metadata[k] = v
		}
	}
	return cloned
}

// SectionMarker bounds a named region inside a fragment. Start and End are
// row numbers in the fragment's grid; the layout stage keeps them consistent
// with any renumbering it applies.
type SectionMarker struct {
	Name  string
	Start int
	End   int
	Kind  MarkerKind
}

// Fragment is one renderable unit of the legacy form: a named collection of
// controls plus optional section markers.
type Fragment struct {
	Name     string
	Role     Role
	Controls []Control
	Markers  []SectionMarker
}

// Clone returns a deep copy of the fragment.
func (f Fragment) Clone() Fragment {
	cloned := f
	if len(f.Controls) > 0 {
		cloned.Controls = make([]Control, len(f.Controls))
		for i, c := range f.Controls {
			cloned.Controls[i] = c.Clone()
		}
	}
	if len(f.Markers) > 0 {
		cloned.Markers = append([]SectionMarker(nil), f.Markers...)
	}
	return cloned
}

// FragmentDescriptor carries the composition metadata for one fragment: its
// role, the repeating section it belongs to, and that section's enclosing
// parent. Parent is source metadata, never derived; an empty Parent means
// the section is top-level.
type FragmentDescriptor struct {
	ID       string
	Role     Role
	Section  string
	Parent   string
	Sequence int
}

// Definition is the parsed legacy form: every fragment plus the descriptor
// list that drives composition.
type Definition struct {
	Name        string
	Title       string
	Fragments   []Fragment
	Descriptors []FragmentDescriptor
	Metadata    map[string]string
}

// Fragment returns the named fragment.
func (d *Definition) Fragment(name string) (Fragment, bool) {
	if d == nil {
		return Fragment{}, false
	}
	for _, f := range d.Fragments {
		if f.Name == name {
			return f, true
		}
	}
	return Fragment{}, false
}

// Descriptor returns the descriptor for the named fragment.
func (d *Definition) Descriptor(id string) (FragmentDescriptor, bool) {
	if d == nil {
		return FragmentDescriptor{}, false
	}
	for _, desc := range d.Descriptors {
		if desc.ID == id {
			return desc, true
		}
	}
	return FragmentDescriptor{}, false
}

// Clone returns a deep copy of the definition.
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	cloned := &Definition{Name: d.Name, Title: d.Title}
	if len(d.Fragments) > 0 {
		cloned.Fragments = make([]Fragment, len(d.Fragments))
		for i, f := range d.Fragments {
			cloned.Fragments[i] = f.Clone()
		}
	}
	if len(d.Descriptors) > 0 {
		cloned.Descriptors = append([]FragmentDescriptor(nil), d.Descriptors...)
	}
	if len(d.Metadata) > 0 {
		cloned.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			cloned.Metadata[k] = v
		}
	}
	return cloned
}

// Validate performs the sanity checks callers rely on before migrating:
// fragment names unique, control IDs unique per fragment, roles known, and
// every descriptor pointing at an existing fragment.
func (d *Definition) Validate() error {
	if d == nil {
		return errors.New("formdef: definition is nil")
	}
	if d.Name == "" {
		return errors.New("formdef: definition name is required")
	}

	fragments := make(map[string]struct{}, len(d.Fragments))
	for _, f := range d.Fragments {
		if f.Name == "" {
			return errors.New("formdef: fragment name is required")
		}
		if _, dup := fragments[f.Name]; dup {
			return fmt.Errorf("formdef: duplicate fragment %q", f.Name)
		}
		fragments[f.Name] = struct{}{}

		if !f.Role.Valid() {
			return fmt.Errorf("formdef: fragment %q has unknown role %q", f.Name, f.Role)
		}

		ids := make(map[string]struct{}, len(f.Controls))
		for _, c := range f.Controls {
			if c.ID == "" {
				return fmt.Errorf("formdef: fragment %q has a control without id", f.Name)
			}
			if _, dup := ids[c.ID]; dup {
				return fmt.Errorf("formdef: fragment %q has duplicate control %q", f.Name, c.ID)
			}
			ids[c.ID] = struct{}{}
		}
	}

	for _, desc := range d.Descriptors {
		if _, ok := fragments[desc.ID]; !ok {
			return fmt.Errorf("formdef: descriptor %q references unknown fragment", desc.ID)
		}
		if !desc.Role.Valid() {
			return fmt.Errorf("formdef: descriptor %q has unknown role %q", desc.ID, desc.Role)
		}
		if (desc.Role == RoleList || desc.Role == RoleItem) && desc.Section == "" {
			return fmt.Errorf("formdef: descriptor %q needs a section name for role %q", desc.ID, desc.Role)
		}
	}

	return nil
}
