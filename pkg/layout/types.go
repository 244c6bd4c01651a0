package layout

import "strings"

// Control is one positioned legacy control, decoded and ready for the layout
// passes. All fields are value types so a copied Control shares nothing with
// its source.
type Control struct {
	ID    string
	Type  string
	Name  string
	Label string
	Pos   Position
}

// Marker bounds a named section inside a fragment. Start and End live in the
// same row space as control positions and must follow every renumbering
// applied to the owning fragment.
type Marker struct {
	Name  string
	Start int
	End   int

	// RowUnmapped is set by CompactRows when Start or End referenced a row
	// the compaction map did not contain. The offending value is left as-is
	// rather than silently adjusted.
	RowUnmapped bool
}

// RowMap records a compaction renumbering from original row to dense row.
type RowMap map[int]int

// Dense returns the compacted row for an original row.
func (m RowMap) Dense(row int) (int, bool) {
	dense, ok := m[row]
	return dense, ok
}

// MaxRow returns the highest dense row in the map, zero when empty.
func (m RowMap) MaxRow() int {
	max := 0
	for _, dense := range m {
		if dense > max {
			max = dense
		}
	}
	return max
}

// Identity reports whether the map leaves every row unchanged.
func (m RowMap) Identity() bool {
	for original, dense := range m {
		if original != dense {
			return false
		}
	}
	return true
}

// TypeSet is an immutable, case-insensitive membership set of control type
// names. Lookups on a nil set report false, so an absent classification
// simply matches nothing.
type TypeSet map[string]struct{}

// NewTypeSet builds a set from the supplied type names.
func NewTypeSet(types ...string) TypeSet {
	set := make(TypeSet, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether the type name belongs to the set.
func (s TypeSet) Has(controlType string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[strings.ToLower(strings.TrimSpace(controlType))]
	return ok
}

func cloneControls(controls []Control) []Control {
	if controls == nil {
		return nil
	}
	out := make([]Control, len(controls))
	copy(out, controls)
	return out
}

func cloneMarkers(markers []Marker) []Marker {
	if markers == nil {
		return nil
	}
	out := make([]Marker, len(markers))
	copy(out, markers)
	return out
}
