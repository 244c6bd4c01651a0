package compose

// Role classifies a fragment's part in composition. Lists and items are the
// two halves of a repeating section; everything else orders as a plain
// standalone section.
type Role string

const (
	RoleStandalone Role = "standalone"
	RoleList       Role = "list"
	RoleItem       Role = "item"
)

// FragmentRef names a fragment. Composition works on references only;
// fragment content never enters this package.
type FragmentRef string

// Descriptor carries the composition metadata for one fragment, read from
// source metadata and never derived. Section names the repeating section a
// list or item half belongs to. Parent names that section's enclosing
// repeating section; empty means top-level. Sequence is the fragment's
// zero-based position in the source document and stands in for an authored
// row when none is known.
type Descriptor struct {
	Fragment FragmentRef
	Role     Role
	Section  string
	Parent   string
	Sequence int
}

// Pair couples the matched list and item halves of one repeating section.
// Sequence is the smaller of the two halves' sequence positions and only
// breaks ordering ties; it never produces an order key of its own.
type Pair struct {
	Section  string
	List     FragmentRef
	Item     FragmentRef
	TopLevel bool
	Sequence int
}

// Match is the outcome of pairing a document's descriptors. Unmatched holds
// list or item halves whose counterpart was missing: they are excluded from
// composition, and whether a solitary half still appears as a standalone
// section is the caller's policy, not this package's.
type Match struct {
	Standalone []Descriptor
	Pairs      []Pair
	Unmatched  []Descriptor
}

// AreaKind tags the two shapes of composed output.
type AreaKind string

const (
	AreaSingle AreaKind = "single"
	AreaPair   AreaKind = "pair"
)

// Area is one ordered unit of the composed layout. Single areas wrap one
// standalone fragment. Pair areas carry both halves of a repeating section
// with Members in display order: item before list when the section is
// top-level, list before item when it is nested.
type Area struct {
	Kind     AreaKind
	Fragment FragmentRef
	Section  string
	List     FragmentRef
	Item     FragmentRef
	TopLevel bool
	Members  []FragmentRef
	OrderKey int
}

// RowIndex is the immutable position lookup consulted while ordering: the
// smallest authored row per fragment and the declared starting row per
// repeating section. Callers build one per document from source rows, before
// any compaction, and pass it by reference. A nil index knows nothing.
type RowIndex struct {
	fragments map[FragmentRef]int
	sections  map[string]int
}

// NewRowIndex copies the supplied lookups into an index.
func NewRowIndex(fragmentRows map[FragmentRef]int, sectionRows map[string]int) *RowIndex {
	ix := &RowIndex{
		fragments: make(map[FragmentRef]int, len(fragmentRows)),
		sections:  make(map[string]int, len(sectionRows)),
	}
	for ref, row := range fragmentRows {
		ix.fragments[ref] = row
	}
	for name, row := range sectionRows {
		ix.sections[name] = row
	}
	return ix
}

// FragmentRow returns the smallest authored row among the fragment's
// controls.
func (ix *RowIndex) FragmentRow(ref FragmentRef) (int, bool) {
	if ix == nil {
		return 0, false
	}
	row, ok := ix.fragments[ref]
	return row, ok
}

// SectionRow returns the declared starting row of the repeating section.
func (ix *RowIndex) SectionRow(name string) (int, bool) {
	if ix == nil {
		return 0, false
	}
	row, ok := ix.sections[name]
	return row, ok
}
