// Command generate-sample-definition writes a legacy export that exercises
// every migration path: scattered rows, wide controls, a malformed position
// token, a nested pair, and a pair half without its partner. The output is
// shaped exactly like the exports the old platform produced, so it doubles
// as a demo input for the CLI and a stress fixture for manual testing.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

const defaultOutput = "examples/fixtures/expense-report.json"

type definition struct {
	Form      string            `json:"form"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Fragments []fragment        `json:"fragments"`
}

type fragment struct {
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Section  string    `json:"section,omitempty"`
	Parent   string    `json:"parent,omitempty"`
	Controls []control `json:"controls"`
	Sections []marker  `json:"sections,omitempty"`
}

type control struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Label    string `json:"label,omitempty"`
	Position string `json:"position"`
}

type marker struct {
	Name     string `json:"name"`
	StartRow int    `json:"startRow"`
	EndRow   int    `json:"endRow"`
	Kind     string `json:"kind"`
}

func main() {
	outputPath := flag.String("output", defaultOutput, "File to write the sample definition to")
	flag.Parse()

	data, err := json.MarshalIndent(sampleDefinition(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode definition: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Generated sample definition (%d bytes) → %s\n", len(data), *outputPath)
}

func sampleDefinition() definition {
	return definition{
		Form: "expense-report",
		Metadata: map[string]string{
			"source":   "legacy-export",
			"exported": "2018-06-14",
		},
		Fragments: []fragment{
			{
				Name: "header",
				Role: "standalone",
				Controls: []control{
					{ID: "ttl", Type: "label", Label: "Expense Report", Position: "3"},
					{ID: "emp", Type: "text", Name: "employee", Label: "Employee", Position: "17"},
					{ID: "dept", Type: "dropdown", Name: "department", Label: "Department", Position: "17C"},
					{ID: "period", Type: "text", Name: "period", Label: "Period", Position: "23B"},
					{ID: "cc", Type: "checkbox", Name: "corporate_card", Label: "Corporate card", Position: "x23"},
					{ID: "summary", Type: "memo", Name: "summary", Label: "Summary", Position: "40"},
				},
				Sections: []marker{
					{Name: "Receipts", StartRow: 23, EndRow: 40, Kind: "repeating"},
				},
			},
			{
				Name:    "receipts-list",
				Role:    "list",
				Section: "Receipts",
				Controls: []control{
					{ID: "receipts", Type: "grid", Name: "receipts", Position: "1"},
				},
				Sections: []marker{
					{Name: "Lines", StartRow: 1, EndRow: 1, Kind: "repeating"},
				},
			},
			{
				Name:    "receipts-item",
				Role:    "item",
				Section: "Receipts",
				Controls: []control{
					{ID: "vendor", Type: "text", Name: "vendor", Label: "Vendor", Position: "1"},
					{ID: "date", Type: "date", Name: "date", Label: "Date", Position: "1C"},
					{ID: "total", Type: "currency", Name: "total", Label: "Total", Position: "1D"},
				},
			},
			{
				Name:    "lines-list",
				Role:    "list",
				Section: "Lines",
				Parent:  "Receipts",
				Controls: []control{
					{ID: "lines", Type: "grid", Name: "lines", Position: "1"},
				},
			},
			{
				Name:    "lines-item",
				Role:    "item",
				Section: "Lines",
				Parent:  "Receipts",
				Controls: []control{
					{ID: "category", Type: "dropdown", Name: "category", Label: "Category", Position: "1"},
					{ID: "amount", Type: "currency", Name: "amount", Label: "Amount", Position: "1B"},
				},
			},
			{
				Name:    "approvals-list",
				Role:    "list",
				Section: "Approvals",
				Controls: []control{
					{ID: "approvals", Type: "grid", Name: "approvals", Position: "2"},
				},
			},
		},
	}
}
