// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many cells at once.
type Table struct {
	cells []textCell
	cols  int

	// minWidth is the minimum content width of each column,
	// not counting its left margin.
	minWidth []int

	curRow, curCol int
}

type textCell struct {
	row, col, span int
	value          string
	leftMargin     string
	alignment      align
}

type CellOption func(c *textCell)

// LeftMargin sets the text printed to the left of a cell.
func LeftMargin(x string) CellOption {
	return func(c *textCell) {
		c.leftMargin = x
	}
}

var (
	Left   CellOption = func(c *textCell) { c.alignment = alignLeft }
	Center            = func(c *textCell) { c.alignment = alignCenter }
	Right             = func(c *textCell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

func (a align) lpad(s string, w int) string {
	switch a {
	default:
		return s
	case alignCenter:
		l := (w - utf8.RuneCountInString(s)) / 2
		return fmt.Sprintf("%*s%s", l, "", s)
	case alignRight:
		return fmt.Sprintf("%*s", w, s)
	}
}

// Row starts a new row in table t. Calling Row twice in a row leaves
// a blank line.
func (t *Table) Row() *Table {
	if len(t.cells) > 0 {
		t.curRow++
	}
	t.curCol = 0
	return t
}

// Col skips to column "col" in table t. Columns are numbered starting
// at 0.
func (t *Table) Col(col int) *Table {
	if col < t.curCol {
		panic(fmt.Sprintf("cannot move from column %d to earlier column %d", t.curCol, col))
	}
	t.curCol = col
	return t
}

// Cell adds a single-column cell at the current row and column.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	return t.Span(1, value, opts...)
}

// Span adds a multi-column cell at the current row and column.
func (t *Table) Span(cols int, value string, opts ...CellOption) *Table {
	lMargin := " "
	if t.curCol == 0 || len(value) == 0 {
		// The left-most column and empty cells have no
		// left margin by default.
		lMargin = ""
	}
	t.cells = append(t.cells, textCell{t.curRow, t.curCol, cols, value, lMargin, alignLeft})
	for _, o := range opts {
		o(&t.cells[len(t.cells)-1])
	}

	t.curCol += cols
	if t.curCol > t.cols {
		t.cols = t.curCol
	}
	return t
}

// SetMinWidth sets the minimum width of column col, not counting the
// column's left margin. Narrower values are padded according to their
// alignment; wider values widen the column.
func (t *Table) SetMinWidth(col, width int) {
	for len(t.minWidth) < col+1 {
		t.minWidth = append(t.minWidth, 0)
	}
	t.minWidth[col] = width
}

// Format lays out table t and writes it to w.
func (t *Table) Format(w io.Writer) error {
	ncols := max(t.cols, len(t.minWidth))

	// Collect max length margin for each column.
	lmargin := make([]int, ncols)
	for _, cell := range t.cells {
		lmargin[cell.col] = max(utf8.RuneCountInString(cell.leftMargin), lmargin[cell.col])
	}

	// Compute column widths, including their left margins.
	ws := make([]int, ncols)
	for col, mw := range t.minWidth {
		if mw > 0 {
			ws[col] = mw + lmargin[col]
		}
	}
	// Consider cells in increasing span width so that single
	// cells size their columns before spans are fitted across
	// them.
	sort.SliceStable(t.cells, func(i, j int) bool {
		return t.cells[i].span < t.cells[j].span
	})
	for _, cell := range t.cells {
		w := utf8.RuneCountInString(cell.value) + lmargin[cell.col]
		if cell.span == 1 {
			ws[cell.col] = max(ws[cell.col], w)
			continue
		}
		t.fitSpan(ws, cell, w)
	}

	// Convert column widths into starting offsets. The offset of
	// column i is where i's left margin begins. The slice
	// includes a final offset for the width of the table.
	offs := make([]int, ncols+1)
	off := 0
	for i, w := range ws {
		offs[i] = off
		off += w
	}
	offs[ncols] = off

	// Put the cells back into top-to-bottom left-to-right order.
	sort.Slice(t.cells, func(i, j int) bool {
		if t.cells[i].row != t.cells[j].row {
			return t.cells[i].row < t.cells[j].row
		}
		return t.cells[i].col < t.cells[j].col
	})
	row, off := 0, 0
	for _, cell := range t.cells {
		if strings.TrimSpace(cell.value) == "" && strings.TrimSpace(cell.leftMargin) == "" {
			// Skip empty cells so rows carry no trailing
			// spaces.
			continue
		}

		for cell.row > row {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
			row++
			off = 0
		}

		spaces := offs[cell.col] - off
		if _, err := fmt.Fprintf(w, "%*s%*s", spaces, "", lmargin[cell.col], cell.leftMargin); err != nil {
			return err
		}
		off += spaces + lmargin[cell.col]

		// Total cell width, excluding the margin just printed.
		tw := offs[cell.col+cell.span] - offs[cell.col] - lmargin[cell.col]
		s := cell.alignment.lpad(cell.value, tw)
		if _, err := fmt.Fprintf(w, "%s", s); err != nil {
			return err
		}
		off += utf8.RuneCountInString(s)
	}
	if len(t.cells) > 0 {
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// fitSpan widens the columns under a multi-column cell of width w, if
// they are not already wide enough in total.
func (t *Table) fitSpan(ws []int, cell textCell, w int) {
	tw := 0
	for col := cell.col; col < cell.col+cell.span; col++ {
		tw += ws[col]
	}
	if tw >= w {
		return
	}

	// Expand the columns towards the average needed width,
	// widest first, so columns that are already wider than the
	// average give their excess to the narrower ones.
	spanCols := make([]int, 0, cell.span)
	for col := cell.col; col < cell.col+cell.span; col++ {
		spanCols = append(spanCols, col)
	}
	sort.SliceStable(spanCols, func(i, j int) bool {
		return ws[spanCols[i]] > ws[spanCols[j]]
	})
	span := len(spanCols)
	for _, col := range spanCols {
		// Round up w/span.
		avg := (w + span - 1) / span
		ws[col] = max(ws[col], avg)
		w -= ws[col]
		span--
	}
}
