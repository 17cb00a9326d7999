// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart draws pivot tables as grouped bar charts.
package chart

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/bytefs/fsstat/describe"
	"github.com/bytefs/fsstat/pivot"
)

// New returns a bar chart of block i1 of t. Each axis 2 label of t is
// a group of bars along the X axis, with one bar per axis 0 label.
// Cells that are not finite are drawn with zero height.
//
// If summary is "mean" or "geomean", a final group shows that summary
// of each series over its finite cells.
func New(t *pivot.Table, i1 int, title, summary string) (*plot.Plot, error) {
	n0, n2 := len(t.Axes[0].Labels), len(t.Axes[2].Labels)

	p := plot.New()
	p.Title.Text = t.Axes[1].Labels[i1]
	if title != "" {
		p.Title.Text = title + ": " + p.Title.Text
	}
	p.X.Label.Text = t.Axes[2].Dim
	p.Legend.Top = true

	groups := append([]string(nil), t.Axes[2].Labels...)
	if summary != "" && summary != "none" {
		groups = append(groups, summary)
	}

	// The bars of one group share a fixed total width.
	w := vg.Points(60) / vg.Length(max(n0, 1))
	for i0, label := range t.Axes[0].Labels {
		values := make(plotter.Values, 0, len(groups))
		var finite []float64
		for i2 := 0; i2 < n2; i2++ {
			v := t.At(i0, i1, i2)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			} else {
				finite = append(finite, v)
			}
			values = append(values, v)
		}
		if len(groups) > n2 {
			values = append(values, summarize(summary, finite))
		}

		bars, err := plotter.NewBarChart(values, w)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", label, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i0)
		bars.Offset = w * vg.Length(2*i0-(n0-1)) / 2
		p.Add(bars)
		p.Legend.Add(label, bars)
	}
	p.NominalX(groups...)
	return p, nil
}

// summarize returns the named summary of xs, or 0 if it is undefined.
func summarize(summary string, xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var v float64
	switch summary {
	case "mean":
		v = stats.Mean(xs)
	case "geomean":
		v = stats.GeoMean(xs)
	default:
		panic("unknown summary " + summary)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

var formats = map[string]bool{".png": true, ".svg": true, ".pdf": true}

// FileNames returns the chart file of each block of t, following
// ps.FileName within dir. With more than one block, the block label is
// inserted before the extension. Labels that map to the same file name
// get a "~N" suffix.
func FileNames(t *pivot.Table, ps describe.PlotSettings, dir string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(ps.FileName))
	if !formats[ext] {
		return nil, fmt.Errorf("plot_file_name %q: unsupported format, want .png, .svg, or .pdf", ps.FileName)
	}
	base := filepath.Join(dir, strings.TrimSuffix(ps.FileName, filepath.Ext(ps.FileName)))
	blocks := t.Axes[1].Labels
	if len(blocks) == 1 {
		return []string{base + filepath.Ext(ps.FileName)}, nil
	}
	names := make([]string, len(blocks))
	seen := make(map[string]bool)
	for i, label := range blocks {
		fl := fileLabel(label)
		for n := 2; seen[strings.ToLower(fl)]; n++ {
			fl = fmt.Sprintf("%s~%d", fileLabel(label), n)
		}
		seen[strings.ToLower(fl)] = true
		names[i] = base + "." + fl + filepath.Ext(ps.FileName)
	}
	return names, nil
}

// fileLabel makes a display label safe to use in a file name.
func fileLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', '*', '(', ')', '|':
			return '_'
		}
		return r
	}, label)
}

// Save draws every block of t and writes the charts into dir as
// configured by ps. It returns the files written. A table with no
// series or no bar groups has nothing to draw, so Save logs a warning
// and writes no charts.
func Save(t *pivot.Table, ps describe.PlotSettings, dir string, log logrus.FieldLogger) ([]string, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	names, err := FileNames(t, ps, dir)
	if err != nil {
		return nil, err
	}
	for _, a := range []pivot.Axis{t.Axes[0], t.Axes[2]} {
		if len(a.Labels) == 0 {
			log.Warnf("no %s selected, skipping charts", a.Dim)
			return nil, nil
		}
	}
	width := vg.Length(ps.WidthCm) * vg.Centimeter
	height := vg.Length(ps.HeightCm) * vg.Centimeter
	for i1, name := range names {
		p, err := New(t, i1, ps.Title, ps.Summary)
		if err != nil {
			return nil, fmt.Errorf("chart of %q: %w", t.Axes[1].Labels[i1], err)
		}
		if err := p.Save(width, height, name); err != nil {
			return nil, err
		}
		log.WithField("file", name).Debug("wrote chart")
	}
	return names, nil
}
