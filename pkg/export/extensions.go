package export

import (
	"github.com/goliatone/go-formport/pkg/compose"
	"github.com/goliatone/go-formport/pkg/migrate"
	"github.com/goliatone/go-formport/pkg/visibility"
)

// The extension payloads are plain structs with JSON tags so the document
// marshals the same way every run and loads back as ordinary JSON values.

type layoutFragment struct {
	Fragment string            `json:"fragment"`
	Role     string            `json:"role"`
	Title    string            `json:"title,omitempty"`
	Columns  int               `json:"columns"`
	Rows     []layoutRow       `json:"rows"`
	Sections []layoutSection   `json:"sections,omitempty"`
	Widgets  map[string]string `json:"widgets,omitempty"`
}

type layoutRow struct {
	Number int          `json:"number"`
	Cells  []layoutCell `json:"cells"`
}

type layoutCell struct {
	Col      int      `json:"col"`
	ColSpan  int      `json:"colSpan"`
	Controls []string `json:"controls,omitempty"`
}

type layoutSection struct {
	Name        string `json:"name"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	RowUnmapped bool   `json:"rowUnmapped,omitempty"`
}

type areaEntry struct {
	Kind     string   `json:"kind"`
	Fragment string   `json:"fragment,omitempty"`
	Section  string   `json:"section,omitempty"`
	TopLevel bool     `json:"topLevel,omitempty"`
	Members  []string `json:"members,omitempty"`
}

type visibilityEntry struct {
	Area    int      `json:"area"`
	Section string   `json:"section"`
	Hidden  []string `json:"hidden"`
}

func layoutPayload(result *migrate.Result) []layoutFragment {
	out := make([]layoutFragment, 0, len(result.Fragments))
	for _, frag := range result.Fragments {
		entry := layoutFragment{
			Fragment: frag.Name,
			Role:     string(frag.Role),
			Title:    frag.Title,
			Columns:  frag.Table.ColumnCount,
			Rows:     make([]layoutRow, 0, len(frag.Table.Rows)),
			Widgets:  frag.Widgets,
		}
		for _, row := range frag.Table.Rows {
			cells := make([]layoutCell, 0, len(row.Cells))
			for _, cell := range row.Cells {
				ids := make([]string, 0, len(cell.Controls))
				for _, control := range cell.Controls {
					ids = append(ids, control.ID)
				}
				cells = append(cells, layoutCell{Col: cell.Col, ColSpan: cell.ColSpan, Controls: ids})
			}
			entry.Rows = append(entry.Rows, layoutRow{Number: row.Number, Cells: cells})
		}
		for _, section := range frag.Sections {
			entry.Sections = append(entry.Sections, layoutSection{
				Name:        section.Name,
				Start:       section.Start,
				End:         section.End,
				RowUnmapped: section.RowUnmapped,
			})
		}
		out = append(out, entry)
	}
	return out
}

func areasPayload(areas []compose.Area) []areaEntry {
	out := make([]areaEntry, 0, len(areas))
	for _, area := range areas {
		entry := areaEntry{
			Kind:     string(area.Kind),
			Fragment: string(area.Fragment),
			Section:  area.Section,
			TopLevel: area.TopLevel,
		}
		for _, member := range area.Members {
			entry.Members = append(entry.Members, string(member))
		}
		out = append(out, entry)
	}
	return out
}

func visibilityPayload(directives []visibility.Directive) []visibilityEntry {
	out := make([]visibilityEntry, 0, len(directives))
	for _, directive := range directives {
		hidden := make([]string, 0, len(directive.Hidden))
		for _, ref := range directive.Hidden {
			hidden = append(hidden, string(ref))
		}
		out = append(out, visibilityEntry{
			Area:    directive.Area,
			Section: directive.Section,
			Hidden:  hidden,
		})
	}
	return out
}
