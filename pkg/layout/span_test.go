package layout_test

import (
	"testing"

	"github.com/goliatone/go-formport/pkg/layout"
)

var (
	wideTypes  = layout.NewTypeSet("richtext", "memo")
	labelTypes = layout.NewTypeSet("label")
)

func wideControl(id, name string, row, col int) layout.Control {
	return layout.Control{ID: id, Type: "richtext", Name: name, Pos: layout.Position{Row: row, Column: col}}
}

func namedLabel(id, name string, row, col int) layout.Control {
	return layout.Control{ID: id, Type: "label", Name: name, Pos: layout.Position{Row: row, Column: col}}
}

func TestColumnCount(t *testing.T) {
	narrow := []layout.Control{control("a", 1, 0), control("b", 2, 2)}
	if got := layout.ColumnCount(narrow, layout.DefaultMinColumns); got != 4 {
		t.Fatalf("ColumnCount = %d, want 4", got)
	}
	wide := []layout.Control{control("a", 1, 0), control("b", 1, 5)}
	if got := layout.ColumnCount(wide, layout.DefaultMinColumns); got != 6 {
		t.Fatalf("ColumnCount = %d, want 6", got)
	}
	if got := layout.ColumnCount(nil, layout.DefaultMinColumns); got != 4 {
		t.Fatalf("ColumnCount on empty set = %d, want 4", got)
	}
}

func TestResolveSpansCoveredLabel(t *testing.T) {
	// A rich-text field, its own label one column over, and the next field
	// after that: the label does not block, the field does.
	controls := []layout.Control{
		wideControl("notes", "notes", 3, 0),
		namedLabel("notes-label", "notes", 3, 1),
		control("other", 3, 2),
	}

	spans := layout.ResolveSpans(controls, 4, wideTypes, labelTypes)

	span, ok := spans.Lookup(3, 0)
	if !ok {
		t.Fatal("expected a span anchored at (3,0)")
	}
	if span.ColSpan != 2 {
		t.Fatalf("ColSpan = %d, want 2", span.ColSpan)
	}
	if !spans.Suppressed(3, 1) {
		t.Fatal("expected column 1 suppressed")
	}
	if spans.Suppressed(3, 2) {
		t.Fatal("column 2 must stay independent")
	}
	if !spans.ExpectedAttachment("notes-label") {
		t.Fatal("covered label should be an expected attachment")
	}
	owner, ok := spans.Owner(3, 1)
	if !ok || owner.Control != "notes" {
		t.Fatalf("Owner(3,1) = %+v, %t; want the notes span", owner, ok)
	}
}

func TestResolveSpansIndependentLabelBlocks(t *testing.T) {
	controls := []layout.Control{
		wideControl("notes", "notes", 1, 0),
		namedLabel("caption", "caption", 1, 1),
	}

	spans := layout.ResolveSpans(controls, 4, wideTypes, labelTypes)

	if got := spans.SpanAt(1, 0); got != 1 {
		t.Fatalf("SpanAt(1,0) = %d, want 1 (independent label blocks)", got)
	}
	if spans.Suppressed(1, 1) {
		t.Fatal("blocking column must not be suppressed")
	}
}

func TestResolveSpansOpenRowRunsToEdge(t *testing.T) {
	controls := []layout.Control{wideControl("memo", "memo", 2, 0)}

	spans := layout.ResolveSpans(controls, 4, wideTypes, labelTypes)

	if got := spans.SpanAt(2, 0); got != 4 {
		t.Fatalf("SpanAt(2,0) = %d, want 4", got)
	}
	for col := 1; col < 4; col++ {
		if !spans.Suppressed(2, col) {
			t.Fatalf("expected column %d suppressed", col)
		}
	}
}

func TestResolveSpansLastColumn(t *testing.T) {
	controls := []layout.Control{wideControl("memo", "memo", 1, 3)}

	spans := layout.ResolveSpans(controls, 4, wideTypes, labelTypes)

	if got := spans.SpanAt(1, 3); got != 1 {
		t.Fatalf("SpanAt(1,3) = %d, want 1", got)
	}
}

func TestResolveSpansNonWideIgnored(t *testing.T) {
	controls := []layout.Control{
		control("name", 1, 0),
		control("email", 1, 2),
	}

	spans := layout.ResolveSpans(controls, 4, wideTypes, labelTypes)

	if _, ok := spans.Lookup(1, 0); ok {
		t.Fatal("plain controls must not resolve spans")
	}
	if got := spans.SpanAt(1, 0); got != 1 {
		t.Fatalf("SpanAt(1,0) = %d, want 1", got)
	}
}

func TestResolveSpansTwoWideControlsShareRow(t *testing.T) {
	controls := []layout.Control{
		wideControl("first", "first", 1, 0),
		wideControl("second", "second", 1, 2),
	}

	spans := layout.ResolveSpans(controls, 6, wideTypes, labelTypes)

	if got := spans.SpanAt(1, 0); got != 2 {
		t.Fatalf("first span = %d, want 2 (blocked by second wide control)", got)
	}
	if got := spans.SpanAt(1, 2); got != 4 {
		t.Fatalf("second span = %d, want 4 (open to the edge)", got)
	}
}

func TestResolveSpansBounds(t *testing.T) {
	controls := []layout.Control{
		wideControl("a", "a", 1, 0),
		wideControl("b", "b", 1, 3),
		namedLabel("a-label", "a", 1, 1),
		control("c", 2, 1),
		wideControl("d", "d", 2, 2),
	}
	const columnCount = 5

	spans := layout.ResolveSpans(controls, columnCount, wideTypes, labelTypes)

	for _, c := range controls {
		span, ok := spans.Lookup(c.Pos.Row, c.Pos.Column)
		if !ok {
			continue
		}
		if span.ColSpan < 1 {
			t.Fatalf("span %+v below 1", span)
		}
		if span.Col+span.ColSpan > columnCount {
			t.Fatalf("span %+v exceeds column count %d", span, columnCount)
		}
	}
}
