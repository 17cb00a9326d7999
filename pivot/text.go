// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pivot

import (
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf8"

	"github.com/bytefs/fsstat/internal/texttab"
)

// FormatValue formats a cell value the way WriteText prints it.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.2f", v)
}

// WriteText writes t to w as a fixed-width text table. The header
// holds the axis 0 labels. Each axis 1 label starts a block whose rows
// are the axis 2 labels. The row labels are padded to two more than
// the widest of them. Value columns are at least spacing wide and are
// separated by one space.
func (t *Table) WriteText(w io.Writer, spacing int) error {
	var tab texttab.Table
	labelWidth := 0
	for _, l := range t.Axes[2].Labels {
		labelWidth = max(labelWidth, utf8.RuneCountInString(l))
	}
	tab.SetMinWidth(0, labelWidth+2)
	for i := range t.Axes[0].Labels {
		tab.SetMinWidth(i+1, spacing)
	}

	// The first value column starts right after the row labels.
	margin := func(i0 int) texttab.CellOption {
		if i0 == 0 {
			return texttab.LeftMargin("")
		}
		return texttab.LeftMargin(" ")
	}

	tab.Row().Cell("")
	for i0, l := range t.Axes[0].Labels {
		tab.Cell(l, texttab.Right, margin(i0))
	}
	tab.Row()

	for i1, block := range t.Axes[1].Labels {
		tab.Row().Span(len(t.Axes[0].Labels)+1, block)
		for i2, row := range t.Axes[2].Labels {
			tab.Row().Cell(row)
			for i0 := range t.Axes[0].Labels {
				tab.Cell(FormatValue(t.At(i0, i1, i2)), texttab.Right, margin(i0))
			}
		}
		tab.Row()
	}

	if err := tab.Format(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

// WriteFile writes t as text to the named file, replacing it.
func (t *Table) WriteFile(path string, spacing int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteText(f, spacing); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
