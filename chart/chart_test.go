// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/bytefs/fsstat/describe"
	"github.com/bytefs/fsstat/dims"
	"github.com/bytefs/fsstat/pivot"
	"github.com/bytefs/fsstat/statfmt"
)

func testTable(t *testing.T, workloads string) *pivot.Table {
	t.Helper()
	d := new(statfmt.Dataset)
	d.Set("ext4", "varmail", "ops_throughput", "50.0")
	d.Set("bytefs", "varmail", "ops_throughput", "100.0")
	d.Set("ext4", "create", "ops_throughput", "10")
	d.Add("bytefs", "create")
	desc, err := describe.Parse(strings.NewReader(`dimension_settings
filesystem: ext4, bytefs|ByteFS
workload: `+workloads+`
measurement: ops_throughput, ops_throughput / 0|ratio
`), "description.settings", dims.Default, nil)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := pivot.Build(desc, d, dims.Default, nil)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestFileNames(t *testing.T) {
	ps := describe.DefaultPlotSettings()
	ps.FileName = "out/chart.svg"

	names, err := FileNames(testTable(t, "varmail"), ps, "dir")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join("dir", "out", "chart.svg")}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	names, err = FileNames(testTable(t, "varmail, create|create / 2"), ps, "dir")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join("dir", "out", "chart.varmail.svg"),
		filepath.Join("dir", "out", "chart.create___2.svg"),
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	// Distinct labels that clean up to the same file name.
	names, err = FileNames(testTable(t, "varmail|a/b, create|a_b, varmail * 2|A_B"), ps, "dir")
	if err != nil {
		t.Fatal(err)
	}
	want = []string{
		filepath.Join("dir", "out", "chart.a_b.svg"),
		filepath.Join("dir", "out", "chart.a_b~2.svg"),
		filepath.Join("dir", "out", "chart.A_B~3.svg"),
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	ps.FileName = "chart.gif"
	if _, err := FileNames(testTable(t, "varmail"), ps, "dir"); err == nil {
		t.Errorf("want error for unsupported format")
	}
}

func TestNew(t *testing.T) {
	tab := testTable(t, "varmail, create")
	p, err := New(tab, 1, "Throughput", "mean")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title.Text != "Throughput: create" {
		t.Errorf("title = %q", p.Title.Text)
	}
	if p.X.Label.Text != "measurement" {
		t.Errorf("X label = %q", p.X.Label.Text)
	}
	// One tick per bar group, including the summary.
	if n := len(p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)); n != 3 {
		t.Errorf("got %d X ticks, want 3 (two measurements and the mean)", n)
	}
}

func TestSummarize(t *testing.T) {
	check := func(summary string, xs []float64, want float64) {
		t.Helper()
		if got := summarize(summary, xs); math.Abs(got-want) > 1e-9 {
			t.Errorf("summarize(%q, %v) = %v, want %v", summary, xs, got, want)
		}
	}
	check("mean", []float64{1, 2, 6}, 3)
	check("geomean", []float64{1, 4}, 2)
	check("mean", nil, 0)
	check("geomean", []float64{-1, 4}, 0)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	ps := describe.DefaultPlotSettings()
	ps.Title = "Throughput"
	ps.Summary = "geomean"
	for _, name := range []string{"chart.svg", "chart.png"} {
		ps.FileName = name
		files, err := Save(testTable(t, "varmail, create"), ps, dir, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 2 {
			t.Fatalf("wrote %v, want 2 files", files)
		}
		for _, f := range files {
			fi, err := os.Stat(f)
			if err != nil {
				t.Fatal(err)
			}
			if fi.Size() == 0 {
				t.Errorf("%s is empty", f)
			}
		}
	}
}

func TestSaveEmptyAxis(t *testing.T) {
	d := new(statfmt.Dataset)
	d.Set("ext4", "varmail", "ops_throughput", "50.0")
	// The measurement catalog is empty, so a bare measurement line
	// selects nothing.
	desc, err := describe.Parse(strings.NewReader("dimension_settings\nfilesystem: ext4\nworkload: varmail\nmeasurement\n"), "description.settings", dims.Default, nil)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := pivot.Build(desc, d, dims.Default, nil)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	ps := describe.DefaultPlotSettings()
	ps.FileName = "chart.svg"
	var logBuf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logBuf)
	files, err := Save(tab, ps, dir, log)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("wrote %v, want no charts", files)
	}
	if !strings.Contains(logBuf.String(), "no measurement selected") {
		t.Errorf("missing warning, log:\n%s", logBuf.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "chart.svg")); !os.IsNotExist(err) {
		t.Errorf("chart.svg exists or stat failed: %v", err)
	}
}
