// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pivot computes the value table a description asks for.
//
// A Table has three axes, one per dimension of the description. Axis
// 0 labels the columns, axis 1 splits the table into blocks, and axis
// 2 labels the rows of each block. Each cell is the value of one
// formula per dimension, evaluated against a statfmt.Dataset.
package pivot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/bytefs/fsstat/describe"
	"github.com/bytefs/fsstat/dims"
	"github.com/bytefs/fsstat/internal/formula"
	"github.com/bytefs/fsstat/statfmt"
)

// ErrNotImplemented is returned by Build for descriptions with fewer
// than three dimensions.
var ErrNotImplemented = errors.New("not implemented")

// An Axis is one dimension of a Table and its display labels, in
// first-appearance order across description groups.
type Axis struct {
	Dim    string
	Labels []string
}

func (a *Axis) index(label string) int {
	return slices.Index(a.Labels, label)
}

func (a *Axis) add(label string) {
	if a.index(label) < 0 {
		a.Labels = append(a.Labels, label)
	}
}

// A Table is a dense three-dimensional matrix of values indexed by
// axis labels. Cells that no group asked for hold 0. Cells a group
// asked for whose dataset entry is missing hold NaN.
type Table struct {
	Axes  []Axis
	cells []float64
}

func (t *Table) offset(i0, i1, i2 int) int {
	return (i0*len(t.Axes[1].Labels)+i1)*len(t.Axes[2].Labels) + i2
}

// At returns the cell at label indexes i0, i1, i2 of axes 0, 1, and 2.
func (t *Table) At(i0, i1, i2 int) float64 {
	return t.cells[t.offset(i0, i1, i2)]
}

// Set sets the cell at label indexes i0, i1, i2.
func (t *Table) Set(i0, i1, i2 int, v float64) {
	t.cells[t.offset(i0, i1, i2)] = v
}

// Build evaluates desc against d and returns the resulting table. The
// dimension names of d's levels are inferred using cat.
//
// Every group of desc must name the same dimensions in the same
// order. Only three-dimensional descriptions are supported. Groups are
// applied in order, so a later group overwrites cells an earlier group
// also produced.
//
// If log is non-nil, warnings about selections that name
// measurements missing from d are logged to it.
func Build(desc *describe.Description, d *statfmt.Dataset, cat *dims.Catalog, log logrus.FieldLogger) (*Table, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if len(desc.Groups) == 0 {
		return nil, errors.New("description has no dimension settings")
	}

	counts := make([]int, len(desc.Groups))
	for i, g := range desc.Groups {
		counts[i] = len(g.Dims)
	}
	for _, n := range counts[1:] {
		if n != counts[0] {
			return nil, fmt.Errorf("description groups have unequal dimension counts %v", counts)
		}
	}
	switch n := counts[0]; {
	case n > 3:
		return nil, fmt.Errorf("%d-dimensional tables are not supported", n)
	case n < 3:
		return nil, fmt.Errorf("%d-dimensional tables: %w", n, ErrNotImplemented)
	}

	order := desc.Groups[0].DimNames()
	for i, g := range desc.Groups[1:] {
		if names := g.DimNames(); !slices.Equal(names, order) {
			return nil, fmt.Errorf("description group %d has dimensions %v, group 0 has %v", i+1, names, order)
		}
	}

	levels, err := d.Shape(cat)
	if err != nil {
		return nil, err
	}
	for _, dim := range order {
		if !slices.Contains(levels, dim) {
			return nil, fmt.Errorf("dimension %q is not in the dataset, which has %v", dim, levels)
		}
	}
	if err := checkVars(desc, d, levels, cat, log); err != nil {
		return nil, err
	}

	t := &Table{Axes: make([]Axis, len(order))}
	for i, dim := range order {
		t.Axes[i].Dim = dim
		for _, g := range desc.Groups {
			for _, sel := range g.Dims[i].Selections {
				t.Axes[i].add(sel.Label)
			}
		}
	}
	t.cells = make([]float64, len(t.Axes[0].Labels)*len(t.Axes[1].Labels)*len(t.Axes[2].Labels))

	for gi, g := range desc.Groups {
		for _, s0 := range g.Dims[0].Selections {
			for _, s1 := range g.Dims[1].Selections {
				for _, s2 := range g.Dims[2].Selections {
					ev := evaluator{d: d, sels: make([]*describe.Selection, len(levels))}
					for k, sel := range []*describe.Selection{&s0, &s1, &s2} {
						ev.sels[slices.Index(levels, order[k])] = sel
					}
					v, err := ev.eval(0, nil)
					if err != nil {
						return nil, fmt.Errorf("group %d, %s/%s/%s: %w", gi, s0.Label, s1.Label, s2.Label, err)
					}
					t.Set(t.Axes[0].index(s0.Label), t.Axes[1].index(s1.Label), t.Axes[2].index(s2.Label), v)
				}
			}
		}
	}
	return t, nil
}

// checkVars checks that every formula variable names a value of its
// dimension. Dimensions without catalog values are checked against
// the dataset instead, and a miss there is only a warning since the
// cell simply becomes NaN.
func checkVars(desc *describe.Description, d *statfmt.Dataset, levels []string, cat *dims.Catalog, log logrus.FieldLogger) error {
	keys := d.Levels()
	for _, g := range desc.Groups {
		for _, ds := range g.Dims {
			known := mapset.NewSet(cat.Values(ds.Dim)...)
			catalogued := known.Cardinality() > 0
			if !catalogued {
				known = mapset.NewSet(keys[slices.Index(levels, ds.Dim)]...)
			}
			for _, sel := range ds.Selections {
				for _, v := range sel.Vars {
					if known.Contains(v) {
						continue
					}
					if catalogued {
						return fmt.Errorf("%s formula %q: %q is not a %s", ds.Dim, sel.Formula, v, ds.Dim)
					}
					log.Warnf("%s formula %q: %q does not appear in the dataset", ds.Dim, sel.Formula, v)
				}
			}
		}
	}
	return nil
}

// An evaluator computes one cell. sels holds the selection for each
// dataset level, in dataset level order.
type evaluator struct {
	d    *statfmt.Dataset
	sels []*describe.Selection
}

// eval evaluates the selection at level k under the key path prefix.
// Each variable of the formula extends the path by one key and is
// resolved at the next level; at the last level, variables are
// dataset lookups.
func (ev *evaluator) eval(k int, prefix []string) (float64, error) {
	sel := ev.sels[k]
	env := make(map[string]float64, len(sel.Vars))
	for _, v := range sel.Vars {
		path := append(prefix[:k:k], v)
		var x float64
		var err error
		if k == len(ev.sels)-1 {
			x, err = ev.leaf(path)
		} else {
			x, err = ev.eval(k+1, path)
		}
		if err != nil {
			return 0, err
		}
		env[v] = x
	}
	return formula.Eval(sel.Expr, env)
}

func (ev *evaluator) leaf(path []string) (float64, error) {
	val, ok := ev.d.Lookup(path[0], path[1], path[2])
	if !ok {
		return math.NaN(), nil
	}
	x, err := val.Float()
	if err != nil {
		return 0, fmt.Errorf("%s/%s/%s: %w", path[0], path[1], path[2], err)
	}
	return x, nil
}
