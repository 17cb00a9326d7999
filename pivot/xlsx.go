// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pivot

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the longest sheet name a workbook accepts.
const maxSheetName = 31

// WriteXLSX writes t to the named file as a workbook with one sheet
// per axis 1 label. Each sheet has the axis 0 labels across its first
// row and the axis 2 labels down its first column. Cells that are not
// finite hold the text WriteText would print for them.
func (t *Table) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	// Built-in number format 2 is "0.00".
	number, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	for i1, sheet := range sheetNames(t.Axes[1].Labels) {
		if i1 == 0 {
			err = f.SetSheetName("Sheet1", sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return fmt.Errorf("sheet %q: %w", sheet, err)
		}

		for i0, label := range t.Axes[0].Labels {
			if err := setCell(f, sheet, i0+2, 1, label, bold); err != nil {
				return err
			}
		}
		for i2, label := range t.Axes[2].Labels {
			row := i2 + 2
			if err := setCell(f, sheet, 1, row, label, bold); err != nil {
				return err
			}
			for i0 := range t.Axes[0].Labels {
				v := t.At(i0, i1, i2)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					err = setCell(f, sheet, i0+2, row, FormatValue(v), 0)
				} else {
					err = setCell(f, sheet, i0+2, row, v, number)
				}
				if err != nil {
					return err
				}
			}
		}
		if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func setCell(f *excelize.File, sheet string, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	switch value := value.(type) {
	case float64:
		err = f.SetCellFloat(sheet, cell, value, -1, 64)
	case string:
		err = f.SetCellStr(sheet, cell, value)
	}
	if err != nil {
		return err
	}
	if style != 0 {
		return f.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

// sheetNames turns block labels into distinct valid sheet names.
func sheetNames(labels []string) []string {
	names := make([]string, len(labels))
	seen := make(map[string]bool)
	for i, label := range labels {
		name := strings.Map(func(r rune) rune {
			if strings.ContainsRune(`:\/?*[]`, r) {
				return '_'
			}
			return r
		}, label)
		name = strings.Trim(name, "'")
		if name == "" {
			name = "block"
		}
		if r := []rune(name); len(r) > maxSheetName {
			name = string(r[:maxSheetName])
		}
		base := name
		for n := 2; seen[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf("~%d", n)
			r := []rune(base)
			name = string(r[:min(len(r), maxSheetName-len(suffix))]) + suffix
		}
		seen[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}
