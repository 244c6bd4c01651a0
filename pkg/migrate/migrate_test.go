package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formport/pkg/compose"
	"github.com/goliatone/go-formport/pkg/diag"
	"github.com/goliatone/go-formport/pkg/formdef"
	"github.com/goliatone/go-formport/pkg/migrate"
	"github.com/goliatone/go-formport/pkg/visibility"
)

// claimsDefinition models a typical legacy export: a standalone details
// fragment with a heading label, sparse rows and a wide memo, plus the two
// halves of a top-level repeating Items section.
func claimsDefinition() *formdef.Definition {
	return &formdef.Definition{
		Name: "claims",
		Fragments: []formdef.Fragment{
			{
				Name: "details",
				Role: formdef.RoleStandalone,
				Controls: []formdef.Control{
					{ID: "ttl", Type: "label", Name: "details_title", Label: "Claim Details", Position: "1"},
					{ID: "first", Type: "text", Name: "first_name", Label: "First name", Position: "4B"},
					{ID: "notes", Type: "memo", Name: "notes", Label: "Notes", Position: "9"},
				},
				Markers: []formdef.SectionMarker{
					{Name: "Items", Start: 4, End: 9, Kind: formdef.MarkerRepeating},
				},
			},
			{
				Name: "items-list",
				Role: formdef.RoleList,
				Controls: []formdef.Control{
					{ID: "l1", Type: "grid", Name: "rows", Position: "2"},
				},
			},
			{
				Name: "items-item",
				Role: formdef.RoleItem,
				Controls: []formdef.Control{
					{ID: "i1", Type: "text", Name: "qty", Label: "Quantity", Position: "3"},
				},
			},
		},
		Descriptors: []formdef.FragmentDescriptor{
			{ID: "details", Role: formdef.RoleStandalone, Sequence: 0},
			{ID: "items-list", Role: formdef.RoleList, Section: "Items", Sequence: 1},
			{ID: "items-item", Role: formdef.RoleItem, Section: "Items", Sequence: 2},
		},
	}
}

func TestRunMigratesDefinitionEndToEnd(t *testing.T) {
	mig := migrate.New(migrate.WithRunID(func() string { return "run-1" }))

	result, err := mig.Run(context.Background(), migrate.Request{Definition: claimsDefinition()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.RunID != "run-1" {
		t.Fatalf("run id = %q", result.RunID)
	}
	if result.Form != "claims" {
		t.Fatalf("form = %q", result.Form)
	}
	// The definition carries no title, so the details heading is promoted.
	if result.Title != "Claim Details" {
		t.Fatalf("title = %q", result.Title)
	}
	if !result.Clean() {
		t.Fatalf("expected a clean run, got events %v", result.Events)
	}

	details, ok := result.Fragment("details")
	if !ok {
		t.Fatalf("details fragment missing from result")
	}
	if details.Title != "Claim Details" {
		t.Fatalf("details title = %q", details.Title)
	}
	if details.Table.RowCount() != 2 || details.Table.ColumnCount != 4 {
		t.Fatalf("details grid = %dx%d, want 2x4", details.Table.RowCount(), details.Table.ColumnCount)
	}
	if cell, ok := details.Table.CellAt(1, 1); !ok || len(cell.Controls) != 1 || cell.Controls[0].ID != "first" {
		t.Fatalf("cell (1,1) = %+v", cell)
	}
	memo, ok := details.Table.CellAt(2, 0)
	if !ok || memo.ColSpan != 4 {
		t.Fatalf("memo cell = %+v, want full-width span", memo)
	}
	if _, ok := details.Table.CellAt(2, 1); ok {
		t.Fatal("column 1 of row 2 should be merged into the memo cell")
	}
	wantSections := []string{"Items"}
	gotSections := make([]string, 0, len(details.Sections))
	for _, s := range details.Sections {
		gotSections = append(gotSections, s.Name)
		if s.RowUnmapped {
			t.Fatalf("section %q unexpectedly flagged unmapped", s.Name)
		}
	}
	if diff := cmp.Diff(wantSections, gotSections); diff != "" {
		t.Fatalf("sections (-want +got):\n%s", diff)
	}

	wantWidgets := map[string]string{"ttl": "static", "first": "text", "notes": "textarea"}
	if diff := cmp.Diff(wantWidgets, details.Widgets); diff != "" {
		t.Fatalf("details widgets (-want +got):\n%s", diff)
	}

	if len(result.Areas) != 2 {
		t.Fatalf("areas = %+v, want details then Items", result.Areas)
	}
	if result.Areas[0].Fragment != "details" || result.Areas[0].Kind != compose.AreaSingle {
		t.Fatalf("first area = %+v", result.Areas[0])
	}
	pair := result.Areas[1]
	if pair.Kind != compose.AreaPair || pair.Section != "Items" || !pair.TopLevel {
		t.Fatalf("second area = %+v", pair)
	}
	wantMembers := []compose.FragmentRef{"items-item", "items-list"}
	if diff := cmp.Diff(wantMembers, pair.Members); diff != "" {
		t.Fatalf("pair members (-want +got):\n%s", diff)
	}

	wantDirectives := []visibility.Directive{
		{Area: 1, Section: "Items", Hidden: []compose.FragmentRef{"items-list"}},
	}
	if diff := cmp.Diff(wantDirectives, result.Directives); diff != "" {
		t.Fatalf("directives (-want +got):\n%s", diff)
	}

	wantStats := migrate.Stats{Fragments: 3, Controls: 5, Areas: 2, Pairs: 1}
	if diff := cmp.Diff(wantStats, result.Stats); diff != "" {
		t.Fatalf("stats (-want +got):\n%s", diff)
	}
}

func TestRunKeepsAuthoredFormTitle(t *testing.T) {
	def := claimsDefinition()
	def.Title = "Claims Intake"
	mig := migrate.New()

	result, err := mig.Run(context.Background(), migrate.Request{Definition: def})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Title != "Claims Intake" {
		t.Fatalf("title = %q, want the authored one kept", result.Title)
	}
	// The extracted fragment title is still reported per fragment.
	details, _ := result.Fragment("details")
	if details.Title != "Claim Details" {
		t.Fatalf("details title = %q", details.Title)
	}
}

func TestRunTitleExtractionDisabled(t *testing.T) {
	mig := migrate.New(migrate.WithTitleExtraction(false))

	result, err := mig.Run(context.Background(), migrate.Request{Definition: claimsDefinition()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	details, _ := result.Fragment("details")
	if details.Title != "" {
		t.Fatalf("title extracted despite option off: %q", details.Title)
	}
	// The heading label stays in the grid as row 1.
	if details.Table.RowCount() != 3 {
		t.Fatalf("rows = %d, want 3 with the heading kept", details.Table.RowCount())
	}
	if cell, ok := details.Table.CellAt(1, 0); !ok || len(cell.Controls) != 1 || cell.Controls[0].ID != "ttl" {
		t.Fatalf("cell (1,0) = %+v, want the heading label", cell)
	}
}

func TestRunEmitsMalformedTokenDiagnostics(t *testing.T) {
	def := &formdef.Definition{
		Name: "broken",
		Fragments: []formdef.Fragment{
			{
				Name: "view",
				Role: formdef.RoleStandalone,
				Controls: []formdef.Control{
					{ID: "ok", Type: "text", Name: "ok_field", Position: "2"},
					{ID: "bad", Type: "text", Name: "bad_field", Position: "??"},
				},
			},
		},
		Descriptors: []formdef.FragmentDescriptor{
			{ID: "view", Role: formdef.RoleStandalone},
		},
	}
	mig := migrate.New()

	result, err := mig.Run(context.Background(), migrate.Request{Definition: def})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	events := result.EventsOf(diag.KindMalformedPositionToken)
	if len(events) != 1 {
		t.Fatalf("events = %v, want one malformed token", result.Events)
	}
	e := events[0]
	if e.Fragment != "view" || e.Control != "bad" || e.Token != "??" {
		t.Fatalf("event = %+v", e)
	}

	// The control is placed at the sentinel row, which compacts to the last
	// row of the grid rather than disappearing.
	view, _ := result.Fragment("view")
	if view.Table.RowCount() != 2 {
		t.Fatalf("rows = %d", view.Table.RowCount())
	}
	if cell, ok := view.Table.CellAt(2, 0); !ok || len(cell.Controls) != 1 || cell.Controls[0].ID != "bad" {
		t.Fatalf("cell (2,0) = %+v, want the malformed control placed last", cell)
	}
	if result.Stats.Events[diag.KindMalformedPositionToken] != 1 {
		t.Fatalf("stats events = %v", result.Stats.Events)
	}
}

func TestRunSectionRowUnmappedFlagged(t *testing.T) {
	def := &formdef.Definition{
		Name: "gaps",
		Fragments: []formdef.Fragment{
			{
				Name: "view",
				Role: formdef.RoleStandalone,
				Controls: []formdef.Control{
					{ID: "a", Type: "text", Name: "a", Position: "2"},
					{ID: "b", Type: "text", Name: "b", Position: "7"},
				},
				Markers: []formdef.SectionMarker{
					// Row 5 holds no control, so the bound cannot be renumbered.
					{Name: "Loose", Start: 5, End: 7, Kind: formdef.MarkerStatic},
				},
			},
		},
		Descriptors: []formdef.FragmentDescriptor{
			{ID: "view", Role: formdef.RoleStandalone},
		},
	}
	mig := migrate.New()

	result, err := mig.Run(context.Background(), migrate.Request{Definition: def})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	events := result.EventsOf(diag.KindSectionRowUnmapped)
	if len(events) != 1 || events[0].Section != "Loose" || events[0].Fragment != "view" {
		t.Fatalf("events = %v, want one unmapped section bound", result.Events)
	}
	view, _ := result.Fragment("view")
	if len(view.Sections) != 1 || !view.Sections[0].RowUnmapped {
		t.Fatalf("sections = %+v, want the flag carried through", view.Sections)
	}
	if view.Sections[0].Start != 5 {
		t.Fatalf("start = %d, want the authored bound left alone", view.Sections[0].Start)
	}
}

func TestRunUnmatchedHalfExcludedByDefault(t *testing.T) {
	def := solitaryDefinition()
	mig := migrate.New()

	result, err := mig.Run(context.Background(), migrate.Request{Definition: def})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Areas) != 1 || result.Areas[0].Fragment != "header" {
		t.Fatalf("areas = %+v, want only the header", result.Areas)
	}
	events := result.EventsOf(diag.KindUnmatchedPair)
	if len(events) != 1 || events[0].Section != "Ghost" {
		t.Fatalf("events = %v, want the widow half reported", result.Events)
	}
	if result.Stats.Unmatched != 1 {
		t.Fatalf("unmatched = %d", result.Stats.Unmatched)
	}
}

func TestRunEmitSolitaryHalvesReaddsHalf(t *testing.T) {
	def := solitaryDefinition()
	mig := migrate.New(migrate.WithEmitSolitaryHalves(true))

	result, err := mig.Run(context.Background(), migrate.Request{Definition: def})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []compose.FragmentRef{"header", "ghost-list"}
	got := make([]compose.FragmentRef, 0, len(result.Areas))
	for _, area := range result.Areas {
		if area.Kind != compose.AreaSingle {
			t.Fatalf("unexpected pair area %+v", area)
		}
		got = append(got, area.Fragment)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("areas (-want +got):\n%s", diff)
	}

	// Re-adding is a placement policy; the unmatched report stands.
	if len(result.EventsOf(diag.KindUnmatchedPair)) != 1 {
		t.Fatalf("events = %v", result.Events)
	}
	if result.Stats.Unmatched != 1 || result.Stats.Areas != 2 {
		t.Fatalf("stats = %+v", result.Stats)
	}
	if len(result.Directives) != 0 {
		t.Fatalf("directives = %+v, want none for single areas", result.Directives)
	}
}

func solitaryDefinition() *formdef.Definition {
	return &formdef.Definition{
		Name: "ghosts",
		Fragments: []formdef.Fragment{
			{
				Name: "header",
				Role: formdef.RoleStandalone,
				Controls: []formdef.Control{
					{ID: "h1", Type: "text", Name: "subject", Position: "1"},
				},
			},
			{
				Name: "ghost-list",
				Role: formdef.RoleList,
				Controls: []formdef.Control{
					{ID: "g1", Type: "grid", Name: "rows", Position: "5"},
				},
			},
		},
		Descriptors: []formdef.FragmentDescriptor{
			{ID: "header", Role: formdef.RoleStandalone, Sequence: 0},
			{ID: "ghost-list", Role: formdef.RoleList, Section: "Ghost", Sequence: 1},
		},
	}
}

func TestRunNestedSectionHiddenEntirely(t *testing.T) {
	def := &formdef.Definition{
		Name: "orders",
		Fragments: []formdef.Fragment{
			{
				Name: "main",
				Role: formdef.RoleStandalone,
				Controls: []formdef.Control{
					{ID: "m1", Type: "text", Name: "customer", Position: "1"},
				},
				Markers: []formdef.SectionMarker{
					{Name: "Items", Start: 1, End: 1, Kind: formdef.MarkerRepeating},
				},
			},
			{Name: "items-list", Role: formdef.RoleList,
				Controls: []formdef.Control{{ID: "il", Type: "grid", Name: "rows", Position: "1"}}},
			{Name: "items-item", Role: formdef.RoleItem,
				Controls: []formdef.Control{{ID: "ii", Type: "text", Name: "sku", Position: "2"}},
				Markers: []formdef.SectionMarker{
					{Name: "SubItems", Start: 2, End: 2, Kind: formdef.MarkerRepeating},
				}},
			{Name: "sub-list", Role: formdef.RoleList,
				Controls: []formdef.Control{{ID: "sl", Type: "grid", Name: "rows", Position: "1"}}},
			{Name: "sub-item", Role: formdef.RoleItem,
				Controls: []formdef.Control{{ID: "si", Type: "text", Name: "part", Position: "2"}}},
		},
		Descriptors: []formdef.FragmentDescriptor{
			{ID: "main", Role: formdef.RoleStandalone, Sequence: 0},
			{ID: "items-list", Role: formdef.RoleList, Section: "Items", Sequence: 1},
			{ID: "items-item", Role: formdef.RoleItem, Section: "Items", Sequence: 2},
			{ID: "sub-list", Role: formdef.RoleList, Section: "SubItems", Parent: "Items", Sequence: 3},
			{ID: "sub-item", Role: formdef.RoleItem, Section: "SubItems", Parent: "Items", Sequence: 4},
		},
	}
	mig := migrate.New()

	result, err := mig.Run(context.Background(), migrate.Request{Definition: def})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Areas) != 3 {
		t.Fatalf("areas = %+v", result.Areas)
	}
	items := result.Areas[1]
	if items.Section != "Items" || !items.TopLevel {
		t.Fatalf("second area = %+v", items)
	}
	sub := result.Areas[2]
	if sub.Section != "SubItems" || sub.TopLevel {
		t.Fatalf("third area = %+v", sub)
	}
	// Nested sections show the list half first and hide both halves.
	wantMembers := []compose.FragmentRef{"sub-list", "sub-item"}
	if diff := cmp.Diff(wantMembers, sub.Members); diff != "" {
		t.Fatalf("nested members (-want +got):\n%s", diff)
	}
	wantDirectives := []visibility.Directive{
		{Area: 1, Section: "Items", Hidden: []compose.FragmentRef{"items-list"}},
		{Area: 2, Section: "SubItems", Hidden: []compose.FragmentRef{"sub-list", "sub-item"}},
	}
	if diff := cmp.Diff(wantDirectives, result.Directives); diff != "" {
		t.Fatalf("directives (-want +got):\n%s", diff)
	}
}

func TestRunIdempotent(t *testing.T) {
	mig := migrate.New()
	req := migrate.Request{Definition: claimsDefinition()}

	first, err := mig.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := mig.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(migrate.Result{}, "RunID")); diff != "" {
		t.Fatalf("reruns differ (-first +second):\n%s", diff)
	}
	if first.RunID == second.RunID {
		t.Fatalf("run ids should differ, both %q", first.RunID)
	}
}

func TestRunTeesEventsToInjectedSink(t *testing.T) {
	seen := diag.NewCollector()
	mig := migrate.New(migrate.WithSink(seen))

	result, err := mig.Run(context.Background(), migrate.Request{Definition: solitaryDefinition()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff(result.Events, seen.Events()); diff != "" {
		t.Fatalf("sink saw different events (-result +sink):\n%s", diff)
	}
}

func TestRunStrictPlacementPassesCleanInput(t *testing.T) {
	mig := migrate.New(migrate.WithStrictPlacement(true))

	result, err := mig.Run(context.Background(), migrate.Request{Definition: claimsDefinition()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.EventsOf(diag.KindOrphanedControl) != nil {
		t.Fatalf("events = %v", result.Events)
	}
}

func TestRunRejectsEmptyRequest(t *testing.T) {
	mig := migrate.New()

	_, err := mig.Run(context.Background(), migrate.Request{})
	if err == nil || !strings.Contains(err.Error(), "no source") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunValidatesSuppliedDefinition(t *testing.T) {
	def := &formdef.Definition{
		Name: "dupes",
		Fragments: []formdef.Fragment{
			{Name: "view", Role: formdef.RoleStandalone},
			{Name: "view", Role: formdef.RoleStandalone},
		},
	}
	mig := migrate.New()

	_, err := mig.Run(context.Background(), migrate.Request{Definition: def})
	if err == nil || !strings.Contains(err.Error(), "duplicate fragment") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunParsesDocumentRequest(t *testing.T) {
	raw := []byte(`{
		"form": "tickets",
		"controls": [
			{"id": "subject", "type": "text", "name": "subject", "label": "Subject", "position": "1"},
			{"id": "body", "type": "memo", "name": "body", "label": "Body", "position": "2"}
		]
	}`)
	doc := formdef.MustNewDocument(formdef.SourceFromFile("exports/tickets.json"), raw)
	mig := migrate.New()

	result, err := mig.Run(context.Background(), migrate.Request{Document: &doc})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Form != "tickets" {
		t.Fatalf("form = %q", result.Form)
	}
	// A bare control list parses into a single standalone fragment.
	if len(result.Areas) != 1 || result.Areas[0].Fragment != "main" {
		t.Fatalf("areas = %+v", result.Areas)
	}
	main, ok := result.Fragment("main")
	if !ok || main.Table.RowCount() != 2 {
		t.Fatalf("main fragment = %+v", main)
	}
}

func TestRunLoadsSourceThroughDefaultLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claims.json")
	raw := []byte(`{
		"form": "claims",
		"fragments": [
			{
				"name": "view",
				"controls": [{"id": "a", "type": "text", "name": "a", "position": "3"}]
			}
		]
	}`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	mig := migrate.New()

	result, err := mig.Run(context.Background(), migrate.Request{Source: formdef.SourceFromFile(path)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Form != "claims" || result.Stats.Fragments != 1 {
		t.Fatalf("result = %+v", result.Stats)
	}
}
