package migrate

import (
	"fmt"

	"github.com/goliatone/go-formport/pkg/diag"
	"github.com/goliatone/go-formport/pkg/formdef"
	"github.com/goliatone/go-formport/pkg/layout"
)

// migrateFragment runs the layout passes for one fragment: decode position
// tokens, compact rows, extract the title, resolve wide-control spans, and
// assemble the cell matrix. Events flow through the supplied sink stamped
// with the fragment name.
func (m *Migrator) migrateFragment(frag formdef.Fragment, sink diag.Sink) (FragmentResult, error) {
	fragSink := diag.WithFragment(sink, frag.Name)

	controls := make([]layout.Control, 0, len(frag.Controls))
	resolved := make(map[string]string, len(frag.Controls))
	for _, ctl := range frag.Controls {
		pos, ok := layout.ParsePosition(ctl.Position)
		if !ok {
			diag.Emit(fragSink, diag.Event{
				Kind:    diag.KindMalformedPositionToken,
				Control: ctl.ID,
				Token:   ctl.Position,
				Row:     pos.Row,
				Detail:  fmt.Sprintf("position token %q has no parsable row, control %q placed at the sentinel row", ctl.Position, ctl.ID),
			})
		}
		controls = append(controls, layout.Control{
			ID:    ctl.ID,
			Type:  ctl.Type,
			Name:  ctl.Name,
			Label: ctl.Label,
			Pos:   pos,
		})
		resolved[ctl.ID] = m.registry.Widget(ctl)
	}

	markers := make([]layout.Marker, 0, len(frag.Markers))
	for _, mk := range frag.Markers {
		markers = append(markers, layout.Marker{Name: mk.Name, Start: mk.Start, End: mk.End})
	}

	compacted, compactedMarkers, _ := layout.CompactRows(controls, markers)
	for _, mk := range compactedMarkers {
		if !mk.RowUnmapped {
			continue
		}
		diag.Emit(fragSink, diag.Event{
			Kind:    diag.KindSectionRowUnmapped,
			Section: mk.Name,
			Detail:  fmt.Sprintf("section %q references a row outside the compaction map, bounds left as authored", mk.Name),
		})
	}

	title := ""
	if m.extractTitles {
		if extracted, ok, shifted, shiftedMarkers := layout.ExtractTitle(compacted, compactedMarkers, m.registry.LabelTypes()); ok {
			title, compacted, compactedMarkers = extracted, shifted, shiftedMarkers
		}
	}

	columnCount := layout.ColumnCount(compacted, m.minColumns)
	spans := layout.ResolveSpans(compacted, columnCount, m.registry.WideTypes(), m.registry.LabelTypes())

	orphans := 0
	assemblySink := diag.Tee(fragSink, diag.SinkFunc(func(e diag.Event) {
		if e.Kind == diag.KindOrphanedControl {
			orphans++
		}
	}))
	table := layout.AssembleTable(compacted, spans, denseRowMap(compacted), columnCount, assemblySink)
	if m.strictPlacement && orphans > 0 {
		return FragmentResult{}, fmt.Errorf("migrate: fragment %q: %w (%d dropped)", frag.Name, ErrOrphanedControls, orphans)
	}

	return FragmentResult{
		Name:     frag.Name,
		Role:     frag.Role,
		Title:    title,
		Table:    table,
		Sections: compactedMarkers,
		Widgets:  resolved,
	}, nil
}

// denseRowMap rebuilds the identity row map over the rows the controls
// occupy. After title extraction shifts a compacted fragment down one row,
// the original compaction map no longer describes the grid; the occupied
// rows do.
func denseRowMap(controls []layout.Control) layout.RowMap {
	rows := make(layout.RowMap, len(controls))
	for _, c := range controls {
		rows[c.Pos.Row] = c.Pos.Row
	}
	return rows
}
