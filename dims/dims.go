// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dims defines the fixed catalog of dimensions along which
// benchmark statistics are indexed.
//
// A statistics record is keyed by three dimensions: the filesystem
// under test, the workload it ran, and the name of a measurement.
// The catalog lists the known values of each dimension. It is used to
// validate description files and to guess which level of a
// statistics record corresponds to which dimension.
package dims

import "fmt"

// Dimension names.
const (
	Filesystem  = "filesystem"
	Workload    = "workload"
	Measurement = "measurement"
)

// A Catalog is an ordered list of dimensions and their known values.
type Catalog struct {
	names  []string
	values map[string][]string
	owner  map[string]string
}

// NewCatalog returns a catalog of the given dimensions, in order.
// It returns an error if a dimension is repeated or if a value
// belongs to more than one dimension.
func NewCatalog(dims ...Dim) (*Catalog, error) {
	c := &Catalog{
		values: make(map[string][]string),
		owner:  make(map[string]string),
	}
	for _, d := range dims {
		if _, ok := c.values[d.Name]; ok {
			return nil, fmt.Errorf("dimension %q repeated", d.Name)
		}
		c.names = append(c.names, d.Name)
		c.values[d.Name] = d.Values
		for _, v := range d.Values {
			if prev, ok := c.owner[v]; ok {
				return nil, fmt.Errorf("value %q repeated in dimensions %q and %q", v, prev, d.Name)
			}
			c.owner[v] = d.Name
		}
	}
	return c, nil
}

// A Dim is one dimension and its known values.
type Dim struct {
	Name   string
	Values []string
}

// Default is the catalog of filesystems and workloads exercised by the
// benchmark harness. Measurements are open-ended, so the measurement
// dimension has no known values and is always inferred.
var Default = mustCatalog(
	Dim{Filesystem, []string{"ext4", "f2fs", "nova", "pmfs", "bytefs", "bytefs_cow"}},
	Dim{Workload, []string{"create", "delete", "mkdir", "rmdir", "stat", "varmail", "fileserver", "webproxy", "webserver", "oltp"}},
	Dim{Measurement, nil},
)

func mustCatalog(dims ...Dim) *Catalog {
	c, err := NewCatalog(dims...)
	if err != nil {
		panic(err)
	}
	return c
}

// Names returns the dimension names in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Has reports whether name is a dimension in c.
func (c *Catalog) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Values returns the known values of dimension name, in catalog order.
func (c *Catalog) Values(name string) []string {
	return append([]string(nil), c.values[name]...)
}

// Owner returns the dimension that value belongs to, or "" if value
// is not in the catalog.
func (c *Catalog) Owner(value string) string {
	return c.owner[value]
}
