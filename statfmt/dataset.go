// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statfmt implements the statistics record shared by the
// benchmark post-processing tools.
//
// A statistics record is a three-level table mapping a filesystem, a
// workload, and a measurement name to a value. On disk it is a plain
// nested JSON object, conventionally named stats.json:
//
//	{
//	  "ext4": {
//	    "varmail": {
//	      "ops": "123456",
//	      "ops_throughput": "4115.2"
//	    }
//	  }
//	}
//
// The level order is not fixed by the format. Readers use Shape to
// work out which level holds which dimension.
package statfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
)

// FileName is the conventional name of a statistics record file.
const FileName = "stats.json"

// A Value is a single measurement. It holds the measurement's text
// as scraped from a log, which is always a decimal number when
// written by this package's producers. A JSON number is also accepted
// when decoding.
type Value string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("measurement value must be a string or number, got %s", data)
	}
	*v = Value(n)
	return nil
}

// Float parses v as a floating-point number.
func (v Value) Float() (float64, error) {
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil {
		return 0, fmt.Errorf("measurement value %q is not a number", string(v))
	}
	return f, nil
}

// A Dataset is a three-level table of measurement values. The zero
// value is an empty Dataset ready to use.
type Dataset struct {
	tab map[string]map[string]map[string]Value
}

// Add ensures an entry exists for the first two keys, even if it
// holds no measurements.
func (d *Dataset) Add(k0, k1 string) {
	d.inner(k0, k1)
}

func (d *Dataset) inner(k0, k1 string) map[string]Value {
	if d.tab == nil {
		d.tab = make(map[string]map[string]map[string]Value)
	}
	m1, ok := d.tab[k0]
	if !ok {
		m1 = make(map[string]map[string]Value)
		d.tab[k0] = m1
	}
	m2, ok := m1[k1]
	if !ok {
		m2 = make(map[string]Value)
		m1[k1] = m2
	}
	return m2
}

// Set stores v under the three keys, replacing any existing value.
func (d *Dataset) Set(k0, k1, k2 string, v Value) {
	d.inner(k0, k1)[k2] = v
}

// Lookup returns the value stored under the three keys.
func (d *Dataset) Lookup(k0, k1, k2 string) (Value, bool) {
	v, ok := d.tab[k0][k1][k2]
	return v, ok
}

// Len returns the number of entries at the first level.
func (d *Dataset) Len() int {
	return len(d.tab)
}

// Measurements returns the sorted third-level keys under k0 and k1.
func (d *Dataset) Measurements(k0, k1 string) []string {
	return sortedKeys(d.tab[k0][k1])
}

// Levels returns, for each depth of d, the sorted set of keys seen at
// that depth across all branches. Trailing depths with no keys are
// omitted, so an empty Dataset has no levels.
func (d *Dataset) Levels() [][]string {
	sets := []mapset.Set[string]{
		mapset.NewThreadUnsafeSet[string](),
		mapset.NewThreadUnsafeSet[string](),
		mapset.NewThreadUnsafeSet[string](),
	}
	for k0, m1 := range d.tab {
		sets[0].Add(k0)
		for k1, m2 := range m1 {
			sets[1].Add(k1)
			for k2 := range m2 {
				sets[2].Add(k2)
			}
		}
	}
	var levels [][]string
	for _, set := range sets {
		if set.Cardinality() == 0 {
			break
		}
		keys := set.ToSlice()
		sort.Strings(keys)
		levels = append(levels, keys)
	}
	return levels
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes d as a nested JSON object. Keys are sorted at
// every level.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	if d.tab == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.tab)
}

// UnmarshalJSON decodes a nested JSON object into d, replacing its
// contents.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var tab map[string]map[string]map[string]Value
	if err := json.Unmarshal(data, &tab); err != nil {
		return err
	}
	d.tab = tab
	return nil
}

// Write writes d to w as indented JSON followed by a newline.
func (d *Dataset) Write(w io.Writer) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Read decodes a Dataset from r. name is used in error messages.
func Read(r io.Reader, name string) (*Dataset, error) {
	d := new(Dataset)
	if err := json.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// ReadFile reads the Dataset stored in the named file.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, path)
}

// WriteFile writes d to the named file, replacing its contents.
func (d *Dataset) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}
