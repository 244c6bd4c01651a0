package layout

import (
	"fmt"

	"github.com/goliatone/go-formport/pkg/diag"
)

// Cell is one surviving slot of the assembled grid. Suppressed slots produce
// no cell; the owning cell's ColSpan covers them. RowSpan is always one, the
// target platform does not merge vertically.
type Cell struct {
	Col      int
	ColSpan  int
	RowSpan  int
	Controls []Control
}

// TableRow is one dense row of cells in column order.
type TableRow struct {
	Number int
	Cells  []Cell
}

// Table is the per-fragment placement matrix handed to the assembly
// collaborator.
type Table struct {
	ColumnCount int
	Rows        []TableRow
}

// RowCount returns the number of assembled rows.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// CellAt returns the cell anchored at the dense row and column.
func (t Table) CellAt(row, col int) (Cell, bool) {
	if row < 1 || row > len(t.Rows) {
		return Cell{}, false
	}
	for _, cell := range t.Rows[row-1].Cells {
		if cell.Col == col {
			return cell, true
		}
	}
	return Cell{}, false
}

// AssembleTable builds the dense cell matrix for a compacted fragment. The
// grid spans every dense row of the compaction map by columnCount columns;
// suppressed slots collapse into their owning cell, which carries the
// resolved ColSpan. Controls are placed into the cell owning their slot.
//
// A control whose row is absent from the map, or whose column falls outside
// the grid, is dropped with an OrphanedControl event; that should not occur
// for input that went through CompactRows. A control sitting in a suppressed
// slot is attached to the owning merged cell, with a
// SuppressedColumnConflict event unless the resolver already merged over it.
func AssembleTable(controls []Control, spans SpanSet, rows RowMap, columnCount int, sink diag.Sink) Table {
	rowCount := rows.MaxRow()
	table := Table{ColumnCount: columnCount}
	if rowCount < 1 {
		for _, c := range controls {
			emitOrphaned(sink, c)
		}
		return table
	}

	denseRows := make(map[int]struct{}, len(rows))
	for _, dense := range rows {
		denseRows[dense] = struct{}{}
	}

	table.Rows = make([]TableRow, 0, rowCount)
	for row := 1; row <= rowCount; row++ {
		cells := make([]Cell, 0, columnCount)
		for col := 0; col < columnCount; col++ {
			if spans.Suppressed(row, col) {
				continue
			}
			cells = append(cells, Cell{Col: col, ColSpan: spans.SpanAt(row, col), RowSpan: 1})
		}
		table.Rows = append(table.Rows, TableRow{Number: row, Cells: cells})
	}

	index := make(map[cellKey]*Cell, rowCount*columnCount)
	for ri := range table.Rows {
		for ci := range table.Rows[ri].Cells {
			cell := &table.Rows[ri].Cells[ci]
			index[cellKey{table.Rows[ri].Number, cell.Col}] = cell
		}
	}

	for _, c := range controls {
		row, col := c.Pos.Row, c.Pos.Column
		if _, ok := denseRows[row]; !ok || col < 0 || col >= columnCount {
			emitOrphaned(sink, c)
			continue
		}
		if owner, ok := spans.Owner(row, col); ok {
			if !spans.ExpectedAttachment(c.ID) {
				diag.Emit(sink, diag.Event{
					Kind:    diag.KindSuppressedColumnConflict,
					Control: c.ID,
					Row:     row,
					Column:  col,
					Detail:  fmt.Sprintf("control %q placed in merged column %d, attached to cell at column %d", c.ID, col, owner.Col),
				})
			}
			col = owner.Col
		}
		cell := index[cellKey{row, col}]
		if cell == nil {
			emitOrphaned(sink, c)
			continue
		}
		cell.Controls = append(cell.Controls, c)
	}

	return table
}

func emitOrphaned(sink diag.Sink, c Control) {
	diag.Emit(sink, diag.Event{
		Kind:    diag.KindOrphanedControl,
		Control: c.ID,
		Row:     c.Pos.Row,
		Column:  c.Pos.Column,
		Detail:  fmt.Sprintf("control %q at row %d column %d is outside the compacted grid and was dropped", c.ID, c.Pos.Row, c.Pos.Column),
	})
}
