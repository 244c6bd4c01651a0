package report

import (
	"sort"

	"github.com/goliatone/go-formport/pkg/compose"
	"github.com/goliatone/go-formport/pkg/migrate"
)

// Report is the template-facing projection of a migration result. Field
// names surface in templates through their JSON tags, so every tag here is
// part of the template contract.
type Report struct {
	RunID     string      `json:"run_id"`
	Form      string      `json:"form"`
	Title     string      `json:"title,omitempty"`
	Clean     bool        `json:"clean"`
	Stats     Stats       `json:"stats"`
	Fragments []Fragment  `json:"fragments,omitempty"`
	Areas     []Area      `json:"areas,omitempty"`
	Events    []Event     `json:"events,omitempty"`
	Tally     []KindCount `json:"tally,omitempty"`
}

// Stats mirrors the run's counters.
type Stats struct {
	Fragments int `json:"fragments"`
	Controls  int `json:"controls"`
	Areas     int `json:"areas"`
	Pairs     int `json:"pairs"`
	Unmatched int `json:"unmatched"`
	Events    int `json:"events"`
}

// Fragment is one migrated fragment's grid.
type Fragment struct {
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Title    string    `json:"title,omitempty"`
	Columns  int       `json:"columns"`
	RowCount int       `json:"row_count"`
	Rows     []Row     `json:"rows,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Row is one dense grid row.
type Row struct {
	Number int    `json:"number"`
	Cells  []Cell `json:"cells,omitempty"`
}

// Cell is one surviving grid slot; merged neighbours are covered by ColSpan
// and produce no cell of their own.
type Cell struct {
	Col      int       `json:"col"`
	ColSpan  int       `json:"colspan"`
	Controls []Control `json:"controls,omitempty"`
}

// Control is a placed control with its resolved widget.
type Control struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Widget string `json:"widget,omitempty"`
}

// Section is a repeating-section marker in final row space.
type Section struct {
	Name        string `json:"name"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	RowUnmapped bool   `json:"row_unmapped,omitempty"`
}

// Area is one ordered unit of the composed layout. Single areas carry the
// fragment name as their label; pair areas the section name.
type Area struct {
	Kind     string   `json:"kind"`
	Label    string   `json:"label"`
	TopLevel bool     `json:"top_level,omitempty"`
	Members  []Member `json:"members,omitempty"`
}

// Member is a fragment inside a pair area, flagged when a visibility
// directive hides it by default.
type Member struct {
	Fragment string `json:"fragment"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// Event is one diagnostic line.
type Event struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// KindCount tallies one diagnostic kind, sorted by kind name for stable
// report output.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Build projects a migration result into the report view-model. The
// projection is pure: it reads the result and shares none of its slices.
func Build(result *migrate.Result) Report {
	if result == nil {
		return Report{}
	}

	rep := Report{
		RunID: result.RunID,
		Form:  result.Form,
		Title: result.Title,
		Clean: result.Clean(),
		Stats: Stats{
			Fragments: result.Stats.Fragments,
			Controls:  result.Stats.Controls,
			Areas:     result.Stats.Areas,
			Pairs:     result.Stats.Pairs,
			Unmatched: result.Stats.Unmatched,
			Events:    len(result.Events),
		},
	}

	for _, frag := range result.Fragments {
		rep.Fragments = append(rep.Fragments, buildFragment(frag))
	}

	hidden := hiddenMembers(result)
	for i, area := range result.Areas {
		rep.Areas = append(rep.Areas, buildArea(area, hidden[i]))
	}

	for _, event := range result.Events {
		rep.Events = append(rep.Events, Event{
			Kind:    string(event.Kind),
			Message: event.String(),
		})
	}
	rep.Tally = tally(result)

	return rep
}

func buildFragment(frag migrate.FragmentResult) Fragment {
	out := Fragment{
		Name:     frag.Name,
		Role:     string(frag.Role),
		Title:    frag.Title,
		Columns:  frag.Table.ColumnCount,
		RowCount: frag.Table.RowCount(),
	}

	for _, row := range frag.Table.Rows {
		cells := make([]Cell, 0, len(row.Cells))
		for _, cell := range row.Cells {
			view := Cell{Col: cell.Col, ColSpan: cell.ColSpan}
			for _, ctl := range cell.Controls {
				view.Controls = append(view.Controls, Control{
					ID:     ctl.ID,
					Label:  ctl.Label,
					Widget: frag.Widgets[ctl.ID],
				})
			}
			cells = append(cells, view)
		}
		out.Rows = append(out.Rows, Row{Number: row.Number, Cells: cells})
	}

	for _, marker := range frag.Sections {
		out.Sections = append(out.Sections, Section{
			Name:        marker.Name,
			Start:       marker.Start,
			End:         marker.End,
			RowUnmapped: marker.RowUnmapped,
		})
	}

	return out
}

func buildArea(area compose.Area, hidden map[compose.FragmentRef]bool) Area {
	out := Area{
		Kind:     string(area.Kind),
		TopLevel: area.TopLevel,
	}
	switch area.Kind {
	case compose.AreaPair:
		out.Label = area.Section
	default:
		out.Label = string(area.Fragment)
	}
	for _, ref := range area.Members {
		out.Members = append(out.Members, Member{
			Fragment: string(ref),
			Hidden:   hidden[ref],
		})
	}
	return out
}

// hiddenMembers indexes the default-hidden fragments per area position.
func hiddenMembers(result *migrate.Result) map[int]map[compose.FragmentRef]bool {
	out := make(map[int]map[compose.FragmentRef]bool, len(result.Directives))
	for _, directive := range result.Directives {
		set := out[directive.Area]
		if set == nil {
			set = make(map[compose.FragmentRef]bool, len(directive.Hidden))
			out[directive.Area] = set
		}
		for _, ref := range directive.Hidden {
			set[ref] = true
		}
	}
	return out
}

func tally(result *migrate.Result) []KindCount {
	if len(result.Stats.Events) == 0 {
		return nil
	}
	out := make([]KindCount, 0, len(result.Stats.Events))
	for kind, count := range result.Stats.Events {
		out = append(out, KindCount{Kind: string(kind), Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
