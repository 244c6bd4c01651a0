package layout

import "sort"

// CompactRows renumbers the fragment's rows into a dense 1..n sequence.
// Every distinct row holding at least one control maps, in ascending order,
// to the next dense row; control rows and marker bounds are rewritten
// through that map. A marker bound whose row is absent from the map keeps
// its original value and the marker is flagged RowUnmapped instead of being
// silently adjusted.
//
// The transform is copy-on-write and idempotent: compacting an already
// dense fragment reproduces it, and with zero controls the inputs come back
// unchanged alongside an empty map.
func CompactRows(controls []Control, markers []Marker) ([]Control, []Marker, RowMap) {
	if len(controls) == 0 {
		return cloneControls(controls), cloneMarkers(markers), RowMap{}
	}

	seen := make(map[int]struct{}, len(controls))
	for _, c := range controls {
		seen[c.Pos.Row] = struct{}{}
	}
	rows := make([]int, 0, len(seen))
	for row := range seen {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	rowMap := make(RowMap, len(rows))
	for i, row := range rows {
		rowMap[row] = i + 1
	}

	outControls := make([]Control, len(controls))
	for i, c := range controls {
		c.Pos.Row = rowMap[c.Pos.Row]
		outControls[i] = c
	}

	outMarkers := make([]Marker, len(markers))
	for i, m := range markers {
		if dense, ok := rowMap.Dense(m.Start); ok {
			m.Start = dense
		} else {
			m.RowUnmapped = true
		}
		if dense, ok := rowMap.Dense(m.End); ok {
			m.End = dense
		} else {
			m.RowUnmapped = true
		}
		outMarkers[i] = m
	}
	if markers == nil {
		outMarkers = nil
	}

	return outControls, outMarkers, rowMap
}

// ExtractTitle pulls a lone heading off the top of a compacted fragment.
// When row 1 holds exactly one control, that control is a label, and at
// least one non-label control sits at row 2 or below, the label's text is
// returned as the fragment title, the label is removed, and every remaining
// control row and marker bound of 2 or more is decremented by one.
//
// The shift is a single deterministic step, not a second compaction, and is
// meant to run once, directly after CompactRows. When the shape does not
// match, the inputs come back unchanged with ok false.
func ExtractTitle(controls []Control, markers []Marker, labels TypeSet) (title string, ok bool, outControls []Control, outMarkers []Marker) {
	headIdx := -1
	headCount := 0
	hasBody := false
	for i, c := range controls {
		switch {
		case c.Pos.Row == 1:
			headIdx = i
			headCount++
		case c.Pos.Row >= 2 && !labels.Has(c.Type):
			hasBody = true
		}
	}
	if headCount != 1 || !hasBody || !labels.Has(controls[headIdx].Type) {
		return "", false, cloneControls(controls), cloneMarkers(markers)
	}

	title = controls[headIdx].Label

	outControls = make([]Control, 0, len(controls)-1)
	for i, c := range controls {
		if i == headIdx {
			continue
		}
		if c.Pos.Row >= 2 {
			c.Pos.Row--
		}
		outControls = append(outControls, c)
	}

	outMarkers = make([]Marker, len(markers))
	for i, m := range markers {
		if m.Start >= 2 {
			m.Start--
		}
		if m.End >= 2 {
			m.End--
		}
		outMarkers[i] = m
	}
	if markers == nil {
		outMarkers = nil
	}

	return title, true, outControls, outMarkers
}
