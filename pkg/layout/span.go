package layout

import "sort"

// DefaultMinColumns is the narrowest table the target platform lays out;
// fragments with fewer used columns are still assembled at this width.
const DefaultMinColumns = 4

// ColumnCount returns the table width for a control set: one past the
// largest observed column, floored at min.
func ColumnCount(controls []Control, min int) int {
	count := min
	for _, c := range controls {
		if c.Pos.Column+1 > count {
			count = c.Pos.Column + 1
		}
	}
	return count
}

type cellKey struct {
	row, col int
}

// Span records the resolved width of a wide control's cell.
type Span struct {
	Control string
	Row     int
	Col     int
	ColSpan int
}

// SpanSet holds the resolver output for one fragment: the span of every wide
// control plus the columns those spans merged away. It is immutable once
// ResolveSpans returns.
type SpanSet struct {
	spans      map[cellKey]Span
	suppressed map[cellKey]cellKey
	expected   map[string]struct{}
}

// Lookup returns the resolved span anchored at the slot.
func (s SpanSet) Lookup(row, col int) (Span, bool) {
	span, ok := s.spans[cellKey{row, col}]
	return span, ok
}

// SpanAt returns the column span for a slot, one when no wide control is
// anchored there.
func (s SpanSet) SpanAt(row, col int) int {
	if span, ok := s.spans[cellKey{row, col}]; ok {
		return span.ColSpan
	}
	return 1
}

// Suppressed reports whether the slot was merged into a neighbouring cell.
func (s SpanSet) Suppressed(row, col int) bool {
	_, ok := s.suppressed[cellKey{row, col}]
	return ok
}

// Owner returns the span whose cell absorbed the suppressed slot.
func (s SpanSet) Owner(row, col int) (Span, bool) {
	ownerKey, ok := s.suppressed[cellKey{row, col}]
	if !ok {
		return Span{}, false
	}
	return s.spans[ownerKey], true
}

// ExpectedAttachment reports whether the control was already inside a merged
// range when spans were resolved. Such controls attach to the owning cell as
// a matter of course; anything else found in a suppressed column later is a
// data inconsistency.
func (s SpanSet) ExpectedAttachment(controlID string) bool {
	_, ok := s.expected[controlID]
	return ok
}

// ResolveSpans computes how many contiguous columns each wide control
// occupies. For a wide control at (row, col) the scan walks columns right of
// col looking for the first blocking column: one holding a non-label
// control, or a label whose name matches no non-label control in the
// fragment (an independent label starting its own field). The span runs to
// the blocking column, or to columnCount when the row stays clear, and every
// column it covers past the first is suppressed.
//
// Labels that merely annotate a field (same name as a non-label control) do
// not block; when the scan rolls over one it is recorded as an expected
// attachment for the assembler.
func ResolveSpans(controls []Control, columnCount int, wide, labels TypeSet) SpanSet {
	set := SpanSet{
		spans:      make(map[cellKey]Span),
		suppressed: make(map[cellKey]cellKey),
		expected:   make(map[string]struct{}),
	}
	if len(controls) == 0 || columnCount <= 0 {
		return set
	}

	// Per-invocation lookup tables: slot occupancy and the names backed by a
	// non-label control.
	slots := make(map[cellKey][]Control, len(controls))
	fieldNames := make(map[string]struct{})
	for _, c := range controls {
		slots[cellKey{c.Pos.Row, c.Pos.Column}] = append(slots[cellKey{c.Pos.Row, c.Pos.Column}], c)
		if !labels.Has(c.Type) && c.Name != "" {
			fieldNames[c.Name] = struct{}{}
		}
	}

	ordered := cloneControls(controls)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Pos.Before(ordered[j].Pos)
	})

	for _, c := range ordered {
		if !wide.Has(c.Type) {
			continue
		}
		anchor := cellKey{c.Pos.Row, c.Pos.Column}
		if _, merged := set.suppressed[anchor]; merged {
			continue
		}

		blocking := columnCount
		for col := c.Pos.Column + 1; col < columnCount; col++ {
			if blocks(slots[cellKey{c.Pos.Row, col}], fieldNames, labels) {
				blocking = col
				break
			}
		}

		span := blocking - c.Pos.Column
		if span < 1 {
			span = 1
		}
		set.spans[anchor] = Span{Control: c.ID, Row: c.Pos.Row, Col: c.Pos.Column, ColSpan: span}

		for col := c.Pos.Column + 1; col < c.Pos.Column+span; col++ {
			key := cellKey{c.Pos.Row, col}
			set.suppressed[key] = anchor
			for _, covered := range slots[key] {
				set.expected[covered.ID] = struct{}{}
			}
		}
	}

	return set
}

// blocks reports whether a slot's occupants stop a wide control's scan. An
// empty slot never blocks; a slot holding any non-label control, or a label
// without a backing field, does.
func blocks(occupants []Control, fieldNames map[string]struct{}, labels TypeSet) bool {
	for _, c := range occupants {
		if !labels.Has(c.Type) {
			return true
		}
		if _, backed := fieldNames[c.Name]; !backed {
			return true
		}
	}
	return false
}
