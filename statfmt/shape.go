// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package statfmt

import (
	"fmt"
	"slices"

	"github.com/bytefs/fsstat/dims"
)

// A ShapeError reports a Dataset whose levels cannot be matched to
// the dimensions of a catalog.
type ShapeError struct {
	Level int // Level at fault, or -1 for the Dataset as a whole
	Msg   string
}

func (e *ShapeError) Error() string {
	if e.Level < 0 {
		return "dataset shape: " + e.Msg
	}
	return fmt.Sprintf("dataset shape: level %d: %s", e.Level, e.Msg)
}

// Shape returns the dimension name of each level of d.
//
// A level whose keys all belong to one dimension of c is that
// dimension. A level none of whose keys are in c is implicit. At most
// one level may be implicit, and it is given the single dimension of
// c not claimed by another level.
func (d *Dataset) Shape(c *dims.Catalog) ([]string, error) {
	levels := d.Levels()
	if len(levels) == 0 {
		return nil, &ShapeError{-1, "dataset is empty"}
	}

	names := make([]string, len(levels))
	implicit := -1
	for i, keys := range levels {
		var unknown []string
		for _, k := range keys {
			owner := c.Owner(k)
			switch {
			case owner == "":
				unknown = append(unknown, k)
			case names[i] == "":
				names[i] = owner
			case names[i] != owner:
				return nil, &ShapeError{i, fmt.Sprintf("keys from both %q and %q dimensions", names[i], owner)}
			}
		}
		if names[i] == "" {
			if implicit >= 0 {
				return nil, &ShapeError{i, fmt.Sprintf("more than one implicit dimension (levels %d and %d)", implicit, i)}
			}
			implicit = i
			continue
		}
		if len(unknown) > 0 {
			return nil, &ShapeError{i, fmt.Sprintf("keys %v are not in dimension %q", unknown, names[i])}
		}
	}

	for i, name := range names {
		if name == "" {
			continue
		}
		if j := slices.Index(names, name); j != i {
			return nil, &ShapeError{i, fmt.Sprintf("dimension %q already at level %d", name, j)}
		}
	}

	if implicit >= 0 {
		var free []string
		for _, name := range c.Names() {
			if !slices.Contains(names, name) {
				free = append(free, name)
			}
		}
		if len(free) != 1 {
			return nil, &ShapeError{implicit, fmt.Sprintf("cannot name implicit dimension, candidates %v", free)}
		}
		names[implicit] = free[0]
	}
	return names, nil
}
